package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// DLQPublisher сбрасывает недоставленные нотификации в DLQ-топик,
// чтобы их можно было разобрать и переотправить вручную.
type DLQPublisher struct {
	producer *Producer
	topic    string
}

// NewDLQPublisher создаёт publisher поверх общего продьюсера.
func NewDLQPublisher(producer *Producer) *DLQPublisher {
	return &DLQPublisher{
		producer: producer,
		topic:    TopicDeadLetterQueue,
	}
}

// Publish сериализует сообщение outbox и отправляет его в DLQ-топик.
func (p *DLQPublisher) Publish(msg domain.OutboxMessage) error {
	record, err := json.Marshal(map[string]any{
		"outbox_id":        msg.ID,
		"kind":             string(msg.Kind),
		"order_id":         msg.OrderID,
		"to":               msg.To,
		"payload":          json.RawMessage(msg.Payload),
		"dlq_published_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal dlq record: %w", err)
	}

	if err := p.producer.PublishEvent(p.topic, msg.OrderID, json.RawMessage(record)); err != nil {
		return fmt.Errorf("publish dlq record: %w", err)
	}
	return nil
}
