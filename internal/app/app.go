package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/auth"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/images"
	"github.com/vladislavdragonenkov/storefront/internal/service/intake"
	"github.com/vladislavdragonenkov/storefront/internal/service/notify"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/resolution"
	transport "github.com/vladislavdragonenkov/storefront/internal/transport/http"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// Run собирает все компоненты магазина и обслуживает запросы до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опционален: без брокеров магазин работает, события не публикуются.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	resolutionMetrics := metrics.NewResolutionMetrics()

	tokens := auth.NewTokenManager(cfg.JWTSecret, 0)
	authSvc := auth.NewService(
		deps.Admins,
		tokens,
		logger.WithField("layer", "auth"),
		auth.WithSeedPassword(cfg.SeedAdminPassword),
	)

	var imageStore domain.ImageStore
	catalogOpts := []catalog.Option{}
	if cfg.UploadDir != "" {
		store, err := images.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL, logger.WithField("layer", "images"))
		if err != nil {
			logger.WithError(err).Warn("image store unavailable, uploads disabled")
		} else {
			imageStore = store
			catalogOpts = append(catalogOpts, catalog.WithImageStore(store))
		}
	}

	catalogSvc := catalog.NewService(deps.Products, logger.WithField("layer", "catalog"), catalogOpts...)

	intakeOpts := []intake.Option{intake.WithMetrics(resolutionMetrics)}
	engineOpts := []resolution.Option{resolution.WithMetrics(resolutionMetrics)}
	if kafkaProducer != nil {
		intakeOpts = append(intakeOpts, intake.WithKafkaProducer(kafkaProducer))
		engineOpts = append(engineOpts, resolution.WithKafkaProducer(kafkaProducer))
	}
	if cfg.OperatorEmail != "" {
		intakeOpts = append(intakeOpts, intake.WithOperatorEmail(cfg.OperatorEmail))
	}

	intakeSvc := intake.NewService(deps.Products, deps.Orders, deps.Outbox, logger.WithField("layer", "intake"), intakeOpts...)
	engine := resolution.NewEngine(deps.Products, deps.Orders, deps.History, deps.Outbox, logger.WithField("layer", "resolution"), engineOpts...)

	// Канал доставки писем: SMTP при настроенном хосте, иначе лог.
	var publisher domain.NotificationPublisher
	if cfg.SMTPHost != "" {
		publisher = notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
		logger.WithField("host", cfg.SMTPHost).Info("smtp mailer enabled")
	} else {
		publisher = notify.NewLogPublisher(logger.WithField("layer", "notify"))
		logger.Info("SMTP_HOST is empty, notifications go to the log")
	}

	workerOpts := []outbox.Option{outbox.WithLogger(logger.WithField("layer", "notify-worker"))}
	if kafkaProducer != nil {
		workerOpts = append(workerOpts, outbox.WithDLQPublisher(kafka.NewDLQPublisher(kafkaProducer)))
	}
	worker := outbox.NewWorker(deps.Outbox, publisher, workerOpts...)
	go worker.Run(ctx)

	server := transport.NewServer(catalogSvc, intakeSvc, engine, authSvc, tokens, imageStore, logger.WithField("layer", "http"))
	router := server.Router()
	if imageStore != nil {
		router.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return deps.Ping(pingCtx)
	}))
	healthHandler.RegisterChecker("notify-backlog", healthcheck.NewBacklogChecker("notify-backlog", func() (int, time.Time, error) {
		stats, err := deps.Outbox.Stats()
		if err != nil {
			return 0, time.Time{}, err
		}
		return stats.PendingCount, stats.OldestPendingAt, nil
	}, 1000, 10*time.Minute))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает служебный HTTP-сервер: метрики и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
