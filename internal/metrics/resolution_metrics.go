package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ResolutionMetrics содержит метрики обработки заказов.
type ResolutionMetrics struct {
	// Счётчики операций
	ordersPlaced      prometheus.Counter
	ordersAccepted    prometheus.Counter
	ordersDeclined    prometheus.Counter
	resolutionsFailed prometheus.Counter
	outOfStock        prometheus.Counter

	// Гистограмма времени резолюции
	resolutionDuration prometheus.Histogram

	// Счётчик поставленных в очередь нотификаций
	notificationsQueued prometheus.Counter
}

// NewResolutionMetrics создаёт новый экземпляр метрик резолюции.
func NewResolutionMetrics() *ResolutionMetrics {
	return newResolutionMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newResolutionMetricsWithRegisterer(registerer prometheus.Registerer) *ResolutionMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ResolutionMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total number of orders placed through checkout",
		}),
		ordersAccepted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_accepted_total",
			Help: "Total number of orders accepted by an operator",
		}),
		ordersDeclined: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_declined_total",
			Help: "Total number of orders declined by an operator",
		}),
		resolutionsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_resolutions_failed_total",
			Help: "Total number of resolution attempts that failed",
		}),
		outOfStock: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_resolutions_out_of_stock_total",
			Help: "Total number of acceptance attempts rejected due to insufficient stock",
		}),
		resolutionDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shop_resolution_duration_seconds",
			Help:    "Duration of order resolution in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		notificationsQueued: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_notifications_queued_total",
			Help: "Total number of notifications queued for delivery",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик оформленных заказов.
func (m *ResolutionMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordOrderAccepted увеличивает счётчик принятых заказов.
func (m *ResolutionMetrics) RecordOrderAccepted() {
	m.ordersAccepted.Inc()
}

// RecordOrderDeclined увеличивает счётчик отклонённых заказов.
func (m *ResolutionMetrics) RecordOrderDeclined() {
	m.ordersDeclined.Inc()
}

// RecordResolutionFailed увеличивает счётчик неудачных резолюций.
func (m *ResolutionMetrics) RecordResolutionFailed() {
	m.resolutionsFailed.Inc()
}

// RecordOutOfStock увеличивает счётчик отказов по остаткам.
func (m *ResolutionMetrics) RecordOutOfStock() {
	m.outOfStock.Inc()
}

// RecordResolutionDuration записывает время выполнения резолюции.
func (m *ResolutionMetrics) RecordResolutionDuration(duration time.Duration) {
	m.resolutionDuration.Observe(duration.Seconds())
}

// RecordNotificationQueued увеличивает счётчик поставленных в очередь нотификаций.
func (m *ResolutionMetrics) RecordNotificationQueued() {
	m.notificationsQueued.Inc()
}
