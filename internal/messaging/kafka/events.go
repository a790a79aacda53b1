package kafka

import "time"

// EventType определяет тип события жизненного цикла заказа.
type EventType string

const (
	// EventTypeOrderPlaced — заказ оформлен покупателем.
	EventTypeOrderPlaced EventType = "order.placed"
	// EventTypeOrderAccepted — заказ принят оператором, остатки списаны.
	EventTypeOrderAccepted EventType = "order.accepted"
	// EventTypeOrderDeclined — заказ отклонён оператором.
	EventTypeOrderDeclined EventType = "order.declined"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "shop.order.events"
	TopicDeadLetterQueue = "shop.dlq" // Dead Letter Queue для failed messages
)

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	Customer   string                 `json:"customer"`
	TotalMinor int64                  `json:"total_minor,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа.
func NewOrderEvent(eventType EventType, orderID, customer string, totalMinor int64, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		Customer:   customer,
		TotalMinor: totalMinor,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}
