package resolution

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Result описывает исход успешной резолюции заказа.
type Result struct {
	OrderID    string
	Decision   domain.ResolutionDecision
	TotalMinor int64
}

// Engine выполняет резолюцию ожидающих заказов: accept или decline.
type Engine struct {
	products      domain.ProductRepository
	orders        domain.OrderRepository
	history       domain.HistoryRepository
	outbox        domain.OutboxRepository
	logger        *log.Entry
	metrics       *metrics.ResolutionMetrics
	kafkaProducer *kafka.Producer // опциональный producer для event-driven интеграций
}

// Option настраивает Engine.
type Option func(*Engine)

// WithKafkaProducer подключает best-effort публикацию событий жизненного цикла.
func WithKafkaProducer(producer *kafka.Producer) Option {
	return func(e *Engine) {
		e.kafkaProducer = producer
	}
}

// WithMetrics задаёт метрики резолюции.
func WithMetrics(m *metrics.ResolutionMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine создаёт рабочий экземпляр движка резолюции. Все зависимости
// передаются явно; движок не владеет их жизненным циклом.
func NewEngine(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	history domain.HistoryRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
	options ...Option,
) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "resolution")
	}
	e := &Engine{
		products: products,
		orders:   orders,
		history:  history,
		outbox:   outbox,
		logger:   logger,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Resolve применяет решение оператора к ожидающему заказу.
//
// Decline: сумма по снимку → архивная запись → нотификация → удаление заказа;
// остатки каталога не затрагиваются.
//
// Accept выполняется в две фазы. Сначала read-only проверка каждой
// размер-строки по живому каталогу; любой недостаток отклоняет весь заказ
// без единой мутации. Только после полной проверки выполняется условное
// списание по товарам, затем архивирование, нотификация и удаление заказа.
func (e *Engine) Resolve(orderID string, decision domain.ResolutionDecision) (Result, error) {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordResolutionDuration(time.Since(start))
		}
	}()

	if !decision.Valid() {
		return Result{}, fmt.Errorf("invalid resolution decision %q", decision)
	}

	order, err := e.orders.Get(orderID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			e.recordFailed()
			return Result{}, fmt.Errorf("load order: %w", err)
		}
		// Повторная резолюция того же ID попадает сюда: это граница идемпотентности.
		return Result{}, domain.ErrOrderNotFound
	}

	logger := e.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"decision": decision,
	})

	if decision == domain.DecisionAccept {
		demands := aggregateDemand(order.Cart)
		if err := e.validateStock(demands); err != nil {
			if domain.IsOutOfStock(err) {
				if e.metrics != nil {
					e.metrics.RecordOutOfStock()
				}
				logger.Info("acceptance rejected: insufficient stock")
				return Result{}, domain.ErrOutOfStock
			}
			e.recordFailed()
			return Result{}, err
		}
		if err := e.applyDecrements(demands, logger); err != nil {
			if domain.IsOutOfStock(err) && e.metrics != nil {
				e.metrics.RecordOutOfStock()
			} else {
				e.recordFailed()
			}
			return Result{}, err
		}
	}

	total := order.TotalMinor()
	status := domain.HistoryStatusDeclined
	kind := domain.NotificationOrderDeclined
	event := kafka.EventTypeOrderDeclined
	if decision == domain.DecisionAccept {
		status = domain.HistoryStatusAccepted
		kind = domain.NotificationOrderAccepted
		event = kafka.EventTypeOrderAccepted
	}

	now := time.Now().UTC()
	record := domain.OrderHistory{
		Name:       order.Name,
		Email:      order.Email,
		Address:    order.Address,
		Phone:      order.Phone,
		Products:   domain.FlattenCart(order.Cart),
		TotalMinor: total,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.history.Create(record); err != nil {
		e.recordFailed()
		return Result{}, fmt.Errorf("archive order: %w", err)
	}

	e.enqueueNotification(order, kind, logger)

	if err := e.orders.Delete(order.ID); err != nil {
		// Архив уже записан; заказ мог быть удалён конкурентной резолюцией.
		e.recordFailed()
		return Result{}, fmt.Errorf("delete resolved order: %w", err)
	}

	e.publishOrderEvent(event, order, total)

	if e.metrics != nil {
		if decision == domain.DecisionAccept {
			e.metrics.RecordOrderAccepted()
		} else {
			e.metrics.RecordOrderDeclined()
		}
	}
	logger.WithField("total_minor", total).Info("order resolved")

	return Result{OrderID: order.ID, Decision: decision, TotalMinor: total}, nil
}

// productDemand — суммарное требование акцепта к одному товару.
type productDemand struct {
	productID string
	lines     []domain.SizeLine
}

// aggregateDemand сводит корзину к одному требованию на товар. Повторы
// товара и размера в разных строках суммируются: обе фазы акцепта должны
// видеть итоговое количество, иначе построчная проверка пропустит корзину,
// которую построчное списание не сможет выполнить целиком.
func aggregateDemand(cart []domain.CartItem) []productDemand {
	index := make(map[string]int, len(cart))
	demands := make([]productDemand, 0, len(cart))
	for _, item := range cart {
		pos, ok := index[item.ProductID]
		if !ok {
			pos = len(demands)
			index[item.ProductID] = pos
			demands = append(demands, productDemand{productID: item.ProductID})
		}
		for _, line := range item.Sizes {
			d := &demands[pos]
			merged := false
			for i := range d.lines {
				if d.lines[i].Size == line.Size {
					d.lines[i].Quantity += line.Quantity
					merged = true
					break
				}
			}
			if !merged {
				d.lines = append(d.lines, domain.SizeLine{Size: line.Size, Quantity: line.Quantity})
			}
		}
	}
	return demands
}

// validateStock — первая фаза акцепта: read-only проверка суммарного
// требования к каждому товару. Обязана завершиться целиком до первой
// мутации, иначе отказ в середине заказа оставил бы каталог в частично
// списанном состоянии.
func (e *Engine) validateStock(demands []productDemand) error {
	for _, demand := range demands {
		product, err := e.products.Get(demand.productID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return domain.ErrOutOfStock
			}
			return fmt.Errorf("load product %s: %w", demand.productID, err)
		}
		for _, line := range demand.lines {
			idx := product.FindSize(line.Size)
			if idx == -1 || product.Sizes[idx].Quantity < line.Quantity {
				return domain.ErrOutOfStock
			}
		}
	}
	return nil
}

// applyDecrements — вторая фаза акцепта: одно условное списание на товар.
// Репозиторий применяет изменение только при достаточном живом остатке,
// поэтому конкурентный акцепт, успевший между фазами, получает отказ здесь,
// а не отрицательный остаток.
func (e *Engine) applyDecrements(demands []productDemand, logger *log.Entry) error {
	for i, demand := range demands {
		err := e.products.DecrementSizes(demand.productID, demand.lines)
		if err == nil {
			logger.WithField("product_id", demand.productID).Debug("stock decremented")
			continue
		}

		if i > 0 {
			// Часть товаров уже списана; компенсирующего отката нет,
			// поэтому фиксируем разрыв в логе для ручного разбора.
			logger.WithError(err).WithFields(log.Fields{
				"product_id":        demand.productID,
				"decremented_items": i,
				"total_items":       len(demands),
			}).Error("partial stock decrement: catalog left inconsistent")
		}
		if errors.Is(err, domain.ErrProductNotFound) || domain.IsOutOfStock(err) {
			return domain.ErrOutOfStock
		}
		return fmt.Errorf("decrement stock for product %s: %w", demand.productID, err)
	}
	return nil
}

// enqueueNotification ставит письмо покупателю в outbox. Отказ очереди не
// отменяет резолюцию: доставка — отдельный нетранзакционный побочный эффект.
func (e *Engine) enqueueNotification(order domain.Order, kind domain.NotificationKind, logger *log.Entry) {
	payload, err := domain.NewNotificationPayload(order).Encode()
	if err != nil {
		logger.WithError(err).Warn("failed to encode notification payload")
		return
	}
	_, err = e.outbox.Enqueue(domain.OutboxMessage{
		Kind:    kind,
		OrderID: order.ID,
		To:      order.Email,
		Payload: payload,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to enqueue notification")
		return
	}
	if e.metrics != nil {
		e.metrics.RecordNotificationQueued()
	}
}

// publishOrderEvent публикует событие жизненного цикла best-effort.
func (e *Engine) publishOrderEvent(eventType kafka.EventType, order domain.Order, total int64) {
	if e.kafkaProducer == nil {
		return
	}
	event := kafka.NewOrderEvent(eventType, order.ID, order.Email, total, nil)
	if err := e.kafkaProducer.PublishEvent(kafka.TopicOrderEvents, order.ID, event); err != nil {
		e.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event")
	}
}

// ListPending возвращает все ожидающие заказы для экрана триажа.
func (e *Engine) ListPending() ([]domain.Order, error) {
	return e.orders.List()
}

// History возвращает архив резолюций, от новых записей к старым.
func (e *Engine) History() ([]domain.OrderHistory, error) {
	return e.history.ListNewestFirst()
}

func (e *Engine) recordFailed() {
	if e.metrics != nil {
		e.metrics.RecordResolutionFailed()
	}
}
