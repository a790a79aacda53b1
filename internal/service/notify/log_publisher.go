package notify

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// LogPublisher пишет нотификации в лог вместо отправки. Используется,
// когда SMTP не настроен: резолюции продолжают работать, письма видны
// в журнале.
type LogPublisher struct {
	logger *log.Entry
}

// NewLogPublisher создаёт лог-канал доставки.
func NewLogPublisher(logger *log.Entry) *LogPublisher {
	if logger == nil {
		logger = log.WithField("component", "notify")
	}
	return &LogPublisher{logger: logger}
}

// Publish рендерит письмо и пишет его в лог.
func (p *LogPublisher) Publish(msg domain.OutboxMessage) error {
	subject, body, err := RenderMessage(msg)
	if err != nil {
		return err
	}

	p.logger.WithFields(log.Fields{
		"kind":     msg.Kind,
		"order_id": msg.OrderID,
		"to":       msg.To,
		"subject":  subject,
		"size":     len(body),
	}).Info("notification rendered (smtp disabled)")
	return nil
}

var _ domain.NotificationPublisher = (*LogPublisher)(nil)
