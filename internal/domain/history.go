package domain

import "time"

// HistoryStatus — терминальный исход резолюции заказа.
type HistoryStatus string

const (
	HistoryStatusAccepted HistoryStatus = "accepted"
	HistoryStatusDeclined HistoryStatus = "declined"
)

// HistoryLine — одна строка архивной записи: размер-строка позиции,
// развёрнутая без группировки по товару.
type HistoryLine struct {
	Name     string
	Size     string
	Quantity int
}

// OrderHistory — архивная запись исхода заказа. Запись неизменяема после создания.
type OrderHistory struct {
	ID      string
	Name    string
	Email   string
	Address string
	Phone   string
	// Products — развёрнутый список по одной записи на размер-строку.
	Products []HistoryLine
	// TotalMinor — сумма заказа на момент резолюции, по снимку корзины.
	TotalMinor int64
	Status     HistoryStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FlattenCart разворачивает снимок корзины в строки архивной записи:
// по одной на каждую пару размер/количество.
func FlattenCart(cart []CartItem) []HistoryLine {
	lines := make([]HistoryLine, 0, len(cart))
	for _, item := range cart {
		for _, sz := range item.Sizes {
			lines = append(lines, HistoryLine{
				Name:     item.Name,
				Size:     sz.Size,
				Quantity: sz.Quantity,
			})
		}
	}
	return lines
}
