package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в магазине.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ожидает решения оператора.
	// Это единственный нетерминальный статус: выход из него только через резолюцию.
	OrderStatusPending OrderStatus = "pending"
)

// ResolutionDecision — решение оператора по ожидающему заказу.
type ResolutionDecision string

const (
	DecisionAccept  ResolutionDecision = "accept"
	DecisionDecline ResolutionDecision = "decline"
)

// Valid сообщает, является ли значение допустимым решением.
func (d ResolutionDecision) Valid() bool {
	return d == DecisionAccept || d == DecisionDecline
}

// SizeLine — одна пара размер/количество внутри позиции корзины.
type SizeLine struct {
	Size     string
	Quantity int
}

// CartItem представляет одну позицию корзины. Name, PriceMinor и Images —
// снимок карточки товара на момент оформления; последующие изменения
// каталога на заказ не влияют.
type CartItem struct {
	ProductID  string
	Name       string
	PriceMinor int64
	Images     []string
	Sizes      []SizeLine
}

// Order агрегирует оформленный заказ покупателя до его резолюции.
type Order struct {
	ID        string
	Name      string
	Email     string
	Address   string
	Phone     string
	Cart      []CartItem
	Status    OrderStatus
	CreatedAt time.Time
}

// TotalMinor возвращает сумму заказа: qty * price по всем размерам всех позиций.
// Считается всегда по снимку корзины, а не по текущему состоянию каталога.
func (o *Order) TotalMinor() int64 {
	var total int64
	for _, item := range o.Cart {
		for _, line := range item.Sizes {
			total += int64(line.Quantity) * item.PriceMinor
		}
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if o.Email == "" {
		errs = append(errs, ErrCustomerEmailRequired)
	}
	if o.Address == "" {
		errs = append(errs, ErrCustomerAddressRequired)
	}
	if o.Phone == "" {
		errs = append(errs, ErrCustomerPhoneRequired)
	}
	if len(o.Cart) == 0 {
		errs = append(errs, ErrCartEmpty)
	}

	for _, item := range o.Cart {
		if item.ProductID == "" {
			errs = append(errs, ErrCartItemProductRequired)
		}
		if item.Name == "" {
			errs = append(errs, ErrCartItemNameRequired)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrCartItemPriceNegative)
		}
		if len(item.Sizes) == 0 {
			errs = append(errs, ErrCartItemSizesRequired)
		}
		for _, line := range item.Sizes {
			if line.Quantity <= 0 {
				errs = append(errs, ErrSizeLineQtyInvalid)
			}
		}
	}

	return errs
}
