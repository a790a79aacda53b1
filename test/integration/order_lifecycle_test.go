package integration

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/intake"
	"github.com/vladislavdragonenkov/storefront/internal/service/notify"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/resolution"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

// OrderLifecycleTestSuite тестирует полный жизненный цикл заказа:
// каталог → оформление → резолюция → архив → доставка нотификаций.
type OrderLifecycleTestSuite struct {
	suite.Suite
	products  domain.ProductRepository
	orders    domain.OrderRepository
	history   domain.HistoryRepository
	outboxRep domain.OutboxRepository
	catalog   *catalog.Service
	intake    *intake.Service
	engine    *resolution.Engine
	publisher *notify.MockPublisher
	worker    *outbox.Worker
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.products = memory.NewProductRepository()
	suite.orders = memory.NewOrderRepository()
	suite.history = memory.NewHistoryRepository()
	suite.outboxRep = memory.NewOutboxRepository()

	suite.catalog = catalog.NewService(suite.products, logger)
	suite.intake = intake.NewService(suite.products, suite.orders, suite.outboxRep, logger)
	suite.engine = resolution.NewEngine(suite.products, suite.orders, suite.history, suite.outboxRep, logger)

	suite.publisher = notify.NewMockPublisher()
	suite.worker = outbox.NewWorker(
		suite.outboxRep,
		suite.publisher,
		outbox.WithLogger(logger),
		outbox.WithRetryBaseDelay(0),
	)
}

func (suite *OrderLifecycleTestSuite) seedProduct(name string, qty int) domain.Product {
	created, err := suite.catalog.Create(domain.Product{
		Name:       name,
		Category:   "Фудбал",
		PriceMinor: 100,
		Sizes:      []domain.SizeStock{{Size: "M", Quantity: qty}},
	})
	require.NoError(suite.T(), err)
	return created
}

func (suite *OrderLifecycleTestSuite) placeOrder(productID string, qty int) string {
	orderID, err := suite.intake.PlaceOrder(domain.Order{
		Name:    "Ана",
		Email:   "ana@example.com",
		Address: "ул. Партизанска 1, Скопје",
		Phone:   "+38970123456",
		Cart: []domain.CartItem{
			{
				ProductID:  productID,
				Name:       "Дрес",
				PriceMinor: 100,
				Sizes:      []domain.SizeLine{{Size: "M", Quantity: qty}},
			},
		},
	})
	require.NoError(suite.T(), err)
	return orderID
}

func (suite *OrderLifecycleTestSuite) TestAcceptLifecycle() {
	product := suite.seedProduct("Дрес", 5)
	orderID := suite.placeOrder(product.ID, 3)

	result, err := suite.engine.Resolve(orderID, domain.DecisionAccept)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(300), result.TotalMinor)

	// Остатки списаны ровно один раз.
	after, err := suite.products.Get(product.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, after.Sizes[0].Quantity)

	// Заказ исчез из ожидающих, архивная запись одна.
	_, err = suite.orders.Get(orderID)
	require.ErrorIs(suite.T(), err, domain.ErrOrderNotFound)

	records, err := suite.history.ListNewestFirst()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 1)
	require.Equal(suite.T(), domain.HistoryStatusAccepted, records[0].Status)

	// Воркер доставляет подтверждение оформления и письмо об акцепте.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	suite.worker.ProcessOnce(ctx)

	require.Len(suite.T(), suite.publisher.Published, 2)
	kinds := map[domain.NotificationKind]bool{}
	for _, msg := range suite.publisher.Published {
		kinds[msg.Kind] = true
	}
	require.True(suite.T(), kinds[domain.NotificationOrderPlaced])
	require.True(suite.T(), kinds[domain.NotificationOrderAccepted])

	stats, err := suite.outboxRep.Stats()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stats.PendingCount)
}

func (suite *OrderLifecycleTestSuite) TestDeclineLifecycle() {
	product := suite.seedProduct("Дрес", 1)
	orderID := suite.placeOrder(product.ID, 3)

	_, err := suite.engine.Resolve(orderID, domain.DecisionDecline)
	require.NoError(suite.T(), err)

	// Остатки не тронуты.
	after, err := suite.products.Get(product.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 1, after.Sizes[0].Quantity)

	records, err := suite.history.ListNewestFirst()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 1)
	require.Equal(suite.T(), domain.HistoryStatusDeclined, records[0].Status)
}

func (suite *OrderLifecycleTestSuite) TestAcceptOutOfStockKeepsOrderPending() {
	product := suite.seedProduct("Дрес", 1)
	orderID := suite.placeOrder(product.ID, 3)

	_, err := suite.engine.Resolve(orderID, domain.DecisionAccept)
	require.True(suite.T(), domain.IsOutOfStock(err))

	// Заказ остаётся в ожидающих: оператор может отклонить его позже.
	pending, err := suite.orders.Get(orderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusPending, pending.Status)

	records, err := suite.history.ListNewestFirst()
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), records)
}

func (suite *OrderLifecycleTestSuite) TestSecondResolutionIsNotFound() {
	product := suite.seedProduct("Дрес", 5)
	orderID := suite.placeOrder(product.ID, 1)

	_, err := suite.engine.Resolve(orderID, domain.DecisionAccept)
	require.NoError(suite.T(), err)

	_, err = suite.engine.Resolve(orderID, domain.DecisionDecline)
	require.ErrorIs(suite.T(), err, domain.ErrOrderNotFound)

	// Списание не задвоилось.
	after, err := suite.products.Get(product.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 4, after.Sizes[0].Quantity)
}

func TestOrderLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
