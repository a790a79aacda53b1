package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service принимает оформленные корзины и сохраняет ожидающие заказы.
type Service struct {
	products      domain.ProductRepository
	orders        domain.OrderRepository
	outbox        domain.OutboxRepository
	logger        *log.Entry
	metrics       *metrics.ResolutionMetrics
	kafkaProducer *kafka.Producer
	// operatorEmail — служебный адрес для уведомления о новой нарачке;
	// пустое значение отключает канал.
	operatorEmail string
}

// Option настраивает Service.
type Option func(*Service)

// WithKafkaProducer подключает best-effort публикацию событий.
func WithKafkaProducer(producer *kafka.Producer) Option {
	return func(s *Service) {
		s.kafkaProducer = producer
	}
}

// WithMetrics задаёт метрики.
func WithMetrics(m *metrics.ResolutionMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithOperatorEmail включает служебное уведомление оператору.
func WithOperatorEmail(email string) Option {
	return func(s *Service) {
		s.operatorEmail = email
	}
}

// NewService создаёт сервис приёма заказов.
func NewService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
	options ...Option,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "intake")
	}
	s := &Service{
		products: products,
		orders:   orders,
		outbox:   outbox,
		logger:   logger,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// PlaceOrder проверяет поля покупателя и корзину, сохраняет ожидающий заказ
// и ставит подтверждение в очередь нотификаций. Остатки на этом этапе не
// проверяются: заказ можно оформить и на распроданный товар, отказ случится
// при акцепте.
func (s *Service) PlaceOrder(order domain.Order) (string, error) {
	order.ID = uuid.NewString()
	order.Status = domain.OrderStatusPending
	order.CreatedAt = time.Now().UTC()
	trimCustomerFields(&order)

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return "", fmt.Errorf("invalid order: %w", errs[0])
	}

	s.enrichImages(&order)

	if err := s.orders.Create(order); err != nil {
		return "", fmt.Errorf("persist order: %w", err)
	}

	logger := s.logger.WithField("order_id", order.ID)
	logger.WithFields(log.Fields{
		"items":       len(order.Cart),
		"total_minor": order.TotalMinor(),
	}).Info("order placed")

	s.enqueueNotifications(order, logger)
	s.publishPlacedEvent(order)

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
	}
	return order.ID, nil
}

// enrichImages подставляет ссылки на изображения из живого каталога для
// позиций, которые пришли без снимка. Чтение best-effort: отсутствие товара
// не блокирует оформление.
func (s *Service) enrichImages(order *domain.Order) {
	for i := range order.Cart {
		if len(order.Cart[i].Images) > 0 {
			continue
		}
		product, err := s.products.Get(order.Cart[i].ProductID)
		if err != nil {
			continue
		}
		order.Cart[i].Images = append([]string(nil), product.Images...)
	}
}

func (s *Service) enqueueNotifications(order domain.Order, logger *log.Entry) {
	payload, err := domain.NewNotificationPayload(order).Encode()
	if err != nil {
		logger.WithError(err).Warn("failed to encode notification payload")
		return
	}

	s.enqueue(domain.OutboxMessage{
		Kind:    domain.NotificationOrderPlaced,
		OrderID: order.ID,
		To:      order.Email,
		Payload: payload,
	}, logger)

	if s.operatorEmail != "" {
		s.enqueue(domain.OutboxMessage{
			Kind:    domain.NotificationOperatorAlert,
			OrderID: order.ID,
			To:      s.operatorEmail,
			Payload: payload,
		}, logger)
	}
}

func (s *Service) enqueue(msg domain.OutboxMessage, logger *log.Entry) {
	if _, err := s.outbox.Enqueue(msg); err != nil {
		logger.WithError(err).WithField("kind", msg.Kind).Warn("failed to enqueue notification")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordNotificationQueued()
	}
}

func (s *Service) publishPlacedEvent(order domain.Order) {
	if s.kafkaProducer == nil {
		return
	}
	event := kafka.NewOrderEvent(kafka.EventTypeOrderPlaced, order.ID, order.Email, order.TotalMinor(), nil)
	if err := s.kafkaProducer.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
	}
}

func trimCustomerFields(order *domain.Order) {
	order.Name = strings.TrimSpace(order.Name)
	order.Email = strings.TrimSpace(order.Email)
	order.Address = strings.TrimSpace(order.Address)
	order.Phone = strings.TrimSpace(order.Phone)
}
