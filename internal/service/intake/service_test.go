package intake

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type fixture struct {
	svc      *Service
	products domain.ProductRepository
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
}

func newFixture(t *testing.T, options ...Option) *fixture {
	t.Helper()

	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()
	return &fixture{
		svc:      NewService(products, orders, outbox, nil, options...),
		products: products,
		orders:   orders,
		outbox:   outbox,
	}
}

func makeRequest() domain.Order {
	return domain.Order{
		Name:    "Ана",
		Email:   "ana@example.com",
		Address: "ул. Партизанска 1, Скопје",
		Phone:   "+38970123456",
		Cart: []domain.CartItem{
			{
				ProductID:  "product-1",
				Name:       "Дрес",
				PriceMinor: 100,
				Sizes:      []domain.SizeLine{{Size: "M", Quantity: 3}},
			},
		},
	}
}

func TestPlaceOrder_Ok(t *testing.T) {
	f := newFixture(t)

	id, err := f.svc.PlaceOrder(makeRequest())
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated order id")
	}

	stored, err := f.orders.Get(id)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if stored.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", stored.Status)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}
}

func TestPlaceOrder_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "missing name",
			mut: func(o *domain.Order) {
				o.Name = "   "
			},
		},
		{
			name: "missing email",
			mut: func(o *domain.Order) {
				o.Email = ""
			},
		},
		{
			name: "empty cart",
			mut: func(o *domain.Order) {
				o.Cart = nil
			},
		},
		{
			name: "item without product reference",
			mut: func(o *domain.Order) {
				o.Cart[0].ProductID = ""
			},
		},
		{
			name: "item without sizes",
			mut: func(o *domain.Order) {
				o.Cart[0].Sizes = nil
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := makeRequest()
			tc.mut(&req)

			if _, err := f.svc.PlaceOrder(req); err == nil {
				t.Fatal("expected validation error")
			}

			orders, err := f.orders.List()
			if err != nil {
				t.Fatalf("list orders failed: %v", err)
			}
			if len(orders) != 0 {
				t.Fatalf("expected no persisted orders, got %d", len(orders))
			}
		})
	}
}

func TestPlaceOrder_NoStockCheck(t *testing.T) {
	f := newFixture(t)

	// Товар распродан: оформление всё равно проходит, отказ случится при акцепте.
	now := time.Now().UTC()
	if err := f.products.Create(domain.Product{
		ID:         "product-1",
		Name:       "Дрес",
		Category:   "Фудбал",
		PriceMinor: 100,
		Sizes:      []domain.SizeStock{{Size: "M", Quantity: 0}},
		Position:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	if _, err := f.svc.PlaceOrder(makeRequest()); err != nil {
		t.Fatalf("expected order against sold-out product to succeed, got %v", err)
	}
}

func TestPlaceOrder_EnrichesImages(t *testing.T) {
	f := newFixture(t)

	now := time.Now().UTC()
	if err := f.products.Create(domain.Product{
		ID:         "product-1",
		Name:       "Дрес",
		Category:   "Фудбал",
		PriceMinor: 100,
		Sizes:      []domain.SizeStock{{Size: "M", Quantity: 5}},
		Images:     []string{"img-ref-1", "img-ref-2"},
		Position:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	id, err := f.svc.PlaceOrder(makeRequest())
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	stored, err := f.orders.Get(id)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(stored.Cart[0].Images) != 2 {
		t.Fatalf("expected enriched images, got %v", stored.Cart[0].Images)
	}
}

func TestPlaceOrder_KeepsSuppliedImages(t *testing.T) {
	f := newFixture(t)

	req := makeRequest()
	req.Cart[0].Images = []string{"client-ref"}

	id, err := f.svc.PlaceOrder(req)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	stored, err := f.orders.Get(id)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(stored.Cart[0].Images) != 1 || stored.Cart[0].Images[0] != "client-ref" {
		t.Fatalf("expected supplied images preserved, got %v", stored.Cart[0].Images)
	}
}

func TestPlaceOrder_QueuesConfirmation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.PlaceOrder(makeRequest()); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	pending, err := f.outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 queued notification, got %d", len(pending))
	}
	if pending[0].Kind != domain.NotificationOrderPlaced {
		t.Fatalf("expected placed notification, got %s", pending[0].Kind)
	}
}

func TestPlaceOrder_OperatorAlert(t *testing.T) {
	f := newFixture(t, WithOperatorEmail("operator@shop.com"))

	if _, err := f.svc.PlaceOrder(makeRequest()); err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	pending, err := f.outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 queued notifications, got %d", len(pending))
	}

	var operatorSeen bool
	for _, msg := range pending {
		if msg.Kind == domain.NotificationOperatorAlert && msg.To == "operator@shop.com" {
			operatorSeen = true
		}
	}
	if !operatorSeen {
		t.Fatal("expected operator alert in queue")
	}
}

func TestPlaceOrder_DuplicateIDError(t *testing.T) {
	// Прямое попадание в ErrDuplicateID из репозитория оборачивается как
	// ошибка персистентности.
	f := newFixture(t)

	req := makeRequest()
	id, err := f.svc.PlaceOrder(req)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	stored, err := f.orders.Get(id)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if err := f.orders.Create(stored); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}
