package domain

import "encoding/json"

// NotificationItem — строка перечня позиций в письме покупателю.
type NotificationItem struct {
	Name  string     `json:"name"`
	Sizes []SizeLine `json:"sizes"`
}

// NotificationPayload — данные для рендеринга шаблона письма.
// Сериализуется в Payload сообщения outbox.
type NotificationPayload struct {
	CustomerName string             `json:"customer_name"`
	OrderID      string             `json:"order_id"`
	Items        []NotificationItem `json:"items,omitempty"`
	TotalMinor   int64              `json:"total_minor,omitempty"`
}

// NewNotificationPayload собирает данные письма из снимка заказа.
func NewNotificationPayload(order Order) NotificationPayload {
	items := make([]NotificationItem, 0, len(order.Cart))
	for _, item := range order.Cart {
		items = append(items, NotificationItem{
			Name:  item.Name,
			Sizes: append([]SizeLine(nil), item.Sizes...),
		})
	}
	return NotificationPayload{
		CustomerName: order.Name,
		OrderID:      order.ID,
		Items:        items,
		TotalMinor:   order.TotalMinor(),
	}
}

// Encode сериализует payload для записи в outbox.
func (p NotificationPayload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// DecodeNotificationPayload разбирает payload сообщения outbox.
func DecodeNotificationPayload(data []byte) (NotificationPayload, error) {
	var p NotificationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return NotificationPayload{}, err
	}
	return p, nil
}
