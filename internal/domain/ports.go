package domain

import "time"

// NotificationKind — тип нотификации, определяющий шаблон письма.
type NotificationKind string

const (
	// NotificationOrderPlaced — подтверждение покупателю о приёме заказа.
	NotificationOrderPlaced NotificationKind = "order.placed"
	// NotificationOrderAccepted — заказ принят, со списком позиций и суммой.
	NotificationOrderAccepted NotificationKind = "order.accepted"
	// NotificationOrderDeclined — заказ отклонён.
	NotificationOrderDeclined NotificationKind = "order.declined"
	// NotificationOperatorAlert — служебное уведомление оператору о новом заказе.
	NotificationOperatorAlert NotificationKind = "operator.alert"
)

// OutboxMessage хранит отложенную нотификацию. Доставка выполняется
// отдельным воркером и никогда не входит в транзакцию резолюции.
type OutboxMessage struct {
	ID      string
	Kind    NotificationKind
	OrderID string
	// To — адрес получателя.
	To string
	// Payload — JSON с данными для рендеринга шаблона.
	Payload []byte
}

// OutboxStats описывает текущее состояние backlog нотификаций.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxRepository позволяет сохранять нотификации для последующей доставки.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// NotificationPublisher доставляет одну нотификацию получателю.
// Доставка best-effort: ошибка фиксируется воркером, но не откатывает
// уже совершённую резолюцию заказа.
type NotificationPublisher interface {
	Publish(msg OutboxMessage) error
}

// ImageStore — внешнее хранилище изображений. Загрузка возвращает
// непрозрачную ссылку; детали хостинга не входят в контракт.
type ImageStore interface {
	Upload(filename string, data []byte) (string, error)
	Remove(ref string) error
}
