package http

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// JSON-формы доменных сущностей; имена полей повторяют документную схему.

type sizeStockJSON struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type productJSON struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	PriceMinor  int64           `json:"price"`
	Description string          `json:"description,omitempty"`
	Sizes       []sizeStockJSON `json:"sizes"`
	Images      []string        `json:"images"`
	Position    int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type productInput struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	PriceMinor  int64           `json:"price"`
	Description string          `json:"description"`
	Sizes       []sizeStockJSON `json:"sizes"`
	Images      []string        `json:"images"`
}

type sizeLineJSON struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type cartItemJSON struct {
	ProductID  string         `json:"productId"`
	Name       string         `json:"name"`
	PriceMinor int64          `json:"price"`
	Images     []string       `json:"images,omitempty"`
	Sizes      []sizeLineJSON `json:"sizes"`
}

type orderJSON struct {
	ID        string         `json:"_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Address   string         `json:"address"`
	Phone     string         `json:"phone"`
	Cart      []cartItemJSON `json:"cart"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

type orderInput struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address string         `json:"address"`
	Phone   string         `json:"phone"`
	Cart    []cartItemJSON `json:"cart"`
}

type historyLineJSON struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

type historyJSON struct {
	ID         string            `json:"_id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Address    string            `json:"address"`
	Phone      string            `json:"phone"`
	Products   []historyLineJSON `json:"products"`
	TotalMinor int64             `json:"total"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func toProductJSON(p domain.Product) productJSON {
	sizes := make([]sizeStockJSON, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, sizeStockJSON{Size: s.Size, Quantity: s.Quantity})
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		PriceMinor:  p.PriceMinor,
		Description: p.Description,
		Sizes:       sizes,
		Images:      images,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductListJSON(products []domain.Product) []productJSON {
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return out
}

func (in productInput) toDomain() domain.Product {
	sizes := make([]domain.SizeStock, 0, len(in.Sizes))
	for _, s := range in.Sizes {
		sizes = append(sizes, domain.SizeStock{Size: s.Size, Quantity: s.Quantity})
	}
	return domain.Product{
		Name:        in.Name,
		Category:    in.Category,
		PriceMinor:  in.PriceMinor,
		Description: in.Description,
		Sizes:       sizes,
		Images:      in.Images,
	}
}

func toOrderJSON(o domain.Order) orderJSON {
	cart := make([]cartItemJSON, 0, len(o.Cart))
	for _, item := range o.Cart {
		sizes := make([]sizeLineJSON, 0, len(item.Sizes))
		for _, line := range item.Sizes {
			sizes = append(sizes, sizeLineJSON{Size: line.Size, Quantity: line.Quantity})
		}
		cart = append(cart, cartItemJSON{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceMinor: item.PriceMinor,
			Images:     item.Images,
			Sizes:      sizes,
		})
	}
	return orderJSON{
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

func toOrderListJSON(orders []domain.Order) []orderJSON {
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	return out
}

func (in orderInput) toDomain() domain.Order {
	cart := make([]domain.CartItem, 0, len(in.Cart))
	for _, item := range in.Cart {
		sizes := make([]domain.SizeLine, 0, len(item.Sizes))
		for _, line := range item.Sizes {
			sizes = append(sizes, domain.SizeLine{Size: line.Size, Quantity: line.Quantity})
		}
		cart = append(cart, domain.CartItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			PriceMinor: item.PriceMinor,
			Images:     item.Images,
			Sizes:      sizes,
		})
	}
	return domain.Order{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		Phone:   in.Phone,
		Cart:    cart,
	}
}

func toHistoryJSON(h domain.OrderHistory) historyJSON {
	products := make([]historyLineJSON, 0, len(h.Products))
	for _, line := range h.Products {
		products = append(products, historyLineJSON{Name: line.Name, Size: line.Size, Quantity: line.Quantity})
	}
	return historyJSON{
		ID:         h.ID,
		Name:       h.Name,
		Email:      h.Email,
		Address:    h.Address,
		Phone:      h.Phone,
		Products:   products,
		TotalMinor: h.TotalMinor,
		Status:     string(h.Status),
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
	}
}

func toHistoryListJSON(records []domain.OrderHistory) []historyJSON {
	out := make([]historyJSON, 0, len(records))
	for _, h := range records {
		out = append(out, toHistoryJSON(h))
	}
	return out
}
