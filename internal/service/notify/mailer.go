package notify

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// SMTPConfig задаёт параметры подключения к почтовому серверу.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From — адрес отправителя всех писем магазина.
	From string
}

// Mailer доставляет нотификации по SMTP. Реализует NotificationPublisher,
// поэтому встаёт за outbox-воркером как канал доставки.
type Mailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	logger *log.Entry
}

// NewMailer создаёт SMTP-канал доставки нотификаций.
func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: log.WithField("component", "mailer"),
	}
}

// Publish рендерит шаблон по типу нотификации и отправляет письмо.
func (m *Mailer) Publish(msg domain.OutboxMessage) error {
	subject, body, err := RenderMessage(msg)
	if err != nil {
		return err
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.cfg.From)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", subject)
	mail.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.logger.WithError(err).WithFields(log.Fields{
			"to":   msg.To,
			"kind": msg.Kind,
		}).Warn("failed to send notification email")
		return fmt.Errorf("send notification email: %w", err)
	}

	m.logger.WithFields(log.Fields{
		"to":   msg.To,
		"kind": msg.Kind,
	}).Debug("notification email sent")
	return nil
}

var _ domain.NotificationPublisher = (*Mailer)(nil)
