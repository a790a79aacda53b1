package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/mongodb"
)

// Dependencies содержит хранилища приложения и их жизненный цикл.
type Dependencies struct {
	Products domain.ProductRepository
	Orders   domain.OrderRepository
	History  domain.HistoryRepository
	Outbox   domain.OutboxRepository
	Admins   domain.AdminRepository
	Logger   *log.Entry

	// store — подключение к MongoDB; nil для in-memory режима.
	store *mongodb.Store
}

// NewDependencies выбирает хранилище: MongoDB при заданном MONGO_URI,
// иначе in-memory (разработка и тесты).
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if cfg.MongoURI == "" {
		logger.Info("MONGO_URI is empty, using in-memory storage")
		return &Dependencies{
			Products: memory.NewProductRepository(),
			Orders:   memory.NewOrderRepository(),
			History:  memory.NewHistoryRepository(),
			Outbox:   memory.NewOutboxRepository(),
			Admins:   memory.NewAdminRepository(),
			Logger:   logger,
		}, nil
	}

	store, err := mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	logger.WithField("database", cfg.MongoDatabase).Info("connected to mongodb")

	return &Dependencies{
		Products: mongodb.NewProductRepository(store),
		Orders:   mongodb.NewOrderRepository(store),
		History:  mongodb.NewHistoryRepository(store),
		Outbox:   mongodb.NewOutboxRepository(store),
		Admins:   mongodb.NewAdminRepository(store),
		Logger:   logger,
		store:    store,
	}, nil
}

// Ping проверяет доступность хранилища; для in-memory всегда успешен.
func (d *Dependencies) Ping(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	return d.store.Ping(ctx)
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	if d.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.store.Close(ctx); err != nil {
		d.Logger.WithError(err).Warn("failed to close mongodb connection")
	} else {
		d.Logger.Info("mongodb connection closed")
	}
}
