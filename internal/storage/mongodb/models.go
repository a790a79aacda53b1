package mongodb

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Документные формы доменных сущностей. Идентификаторы хранятся строками
// в поле _id, bson-теги повторяют JSON-схему фронтенда.

type sizeStockDoc struct {
	Size     string `bson:"size"`
	Quantity int    `bson:"quantity"`
}

type productDoc struct {
	ID          string         `bson:"_id"`
	Name        string         `bson:"name"`
	Category    string         `bson:"category"`
	PriceMinor  int64          `bson:"price"`
	Description string         `bson:"description,omitempty"`
	Sizes       []sizeStockDoc `bson:"sizes"`
	Images      []string       `bson:"images"`
	Position    int            `bson:"order"`
	CreatedAt   time.Time      `bson:"createdAt"`
	UpdatedAt   time.Time      `bson:"updatedAt"`
}

type sizeLineDoc struct {
	Size     string `bson:"size"`
	Quantity int    `bson:"quantity"`
}

type cartItemDoc struct {
	ProductID  string        `bson:"productId"`
	Name       string        `bson:"name"`
	PriceMinor int64         `bson:"price"`
	Images     []string      `bson:"images,omitempty"`
	Sizes      []sizeLineDoc `bson:"sizes"`
}

type orderDoc struct {
	ID        string        `bson:"_id"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Address   string        `bson:"address"`
	Phone     string        `bson:"phone"`
	Cart      []cartItemDoc `bson:"cart"`
	Status    string        `bson:"status"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type historyLineDoc struct {
	Name     string `bson:"name"`
	Size     string `bson:"size"`
	Quantity int    `bson:"quantity"`
}

type historyDoc struct {
	ID         string           `bson:"_id"`
	Name       string           `bson:"name"`
	Email      string           `bson:"email"`
	Address    string           `bson:"address"`
	Phone      string           `bson:"phone"`
	Products   []historyLineDoc `bson:"products"`
	TotalMinor int64            `bson:"total"`
	Status     string           `bson:"status"`
	CreatedAt  time.Time        `bson:"createdAt"`
	UpdatedAt  time.Time        `bson:"updatedAt"`
}

type adminDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	IsAdmin      bool      `bson:"isAdmin"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type outboxDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	OrderID   string    `bson:"orderId"`
	To        string    `bson:"to"`
	Payload   []byte    `bson:"payload"`
	Status    string    `bson:"status"`
	Attempts  int       `bson:"attempts"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func productToDoc(p domain.Product) productDoc {
	sizes := make([]sizeStockDoc, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = sizeStockDoc(s)
	}
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		PriceMinor:  p.PriceMinor,
		Description: p.Description,
		Sizes:       sizes,
		Images:      p.Images,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d productDoc) toDomain() domain.Product {
	sizes := make([]domain.SizeStock, len(d.Sizes))
	for i, s := range d.Sizes {
		sizes[i] = domain.SizeStock(s)
	}
	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Category:    d.Category,
		PriceMinor:  d.PriceMinor,
		Description: d.Description,
		Sizes:       sizes,
		Images:      d.Images,
		Position:    d.Position,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func orderToDoc(o domain.Order) orderDoc {
	cart := make([]cartItemDoc, len(o.Cart))
	for i, item := range o.Cart {
		lines := make([]sizeLineDoc, len(item.Sizes))
		for j, line := range item.Sizes {
			lines[j] = sizeLineDoc(line)
		}
		cart[i] = cartItemDoc{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceMinor: item.PriceMinor,
			Images:     item.Images,
			Sizes:      lines,
		}
	}
	return orderDoc{
		ID:        o.ID,
		Name:      o.Name,
		Email:     o.Email,
		Address:   o.Address,
		Phone:     o.Phone,
		Cart:      cart,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

func (d orderDoc) toDomain() domain.Order {
	cart := make([]domain.CartItem, len(d.Cart))
	for i, item := range d.Cart {
		lines := make([]domain.SizeLine, len(item.Sizes))
		for j, line := range item.Sizes {
			lines[j] = domain.SizeLine(line)
		}
		cart[i] = domain.CartItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceMinor: item.PriceMinor,
			Images:     item.Images,
			Sizes:      lines,
		}
	}
	return domain.Order{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Address:   d.Address,
		Phone:     d.Phone,
		Cart:      cart,
		Status:    domain.OrderStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

func historyToDoc(h domain.OrderHistory) historyDoc {
	lines := make([]historyLineDoc, len(h.Products))
	for i, line := range h.Products {
		lines[i] = historyLineDoc(line)
	}
	return historyDoc{
		ID:         h.ID,
		Name:       h.Name,
		Email:      h.Email,
		Address:    h.Address,
		Phone:      h.Phone,
		Products:   lines,
		TotalMinor: h.TotalMinor,
		Status:     string(h.Status),
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	}
}

func (d historyDoc) toDomain() domain.OrderHistory {
	lines := make([]domain.HistoryLine, len(d.Products))
	for i, line := range d.Products {
		lines[i] = domain.HistoryLine(line)
	}
	return domain.OrderHistory{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		Address:    d.Address,
		Phone:      d.Phone,
		Products:   lines,
		TotalMinor: d.TotalMinor,
		Status:     domain.HistoryStatus(d.Status),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
