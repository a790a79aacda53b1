package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newProduct(id string, position int) domain.Product {
	now := time.Now().UTC()
	return domain.Product{
		ID:         id,
		Name:       "Дрес",
		Category:   "Фудбал",
		PriceMinor: 100,
		Sizes: []domain.SizeStock{
			{Size: "M", Quantity: 5},
			{Size: "L", Quantity: 0},
		},
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductRepository_CreateGet(t *testing.T) {
	repo := memory.NewProductRepository()
	product := newProduct("product-1", 1)

	if err := repo.Create(product); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(product); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	stored, err := repo.Get(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Name != product.Name {
		t.Fatalf("expected name %q, got %q", product.Name, stored.Name)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductRepository_ListByPosition(t *testing.T) {
	repo := memory.NewProductRepository()
	for i, id := range []string{"product-b", "product-a", "product-c"} {
		p := newProduct(id, 3-i)
		if err := repo.Create(p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	products, err := repo.List(domain.ProductSortByPosition)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i, p := range products {
		if p.Position != i+1 {
			t.Fatalf("expected position %d at index %d, got %d", i+1, i, p.Position)
		}
	}
}

func TestProductRepository_MaxPosition(t *testing.T) {
	repo := memory.NewProductRepository()

	max, err := repo.MaxPosition()
	if err != nil {
		t.Fatalf("max position failed: %v", err)
	}
	if max != 0 {
		t.Fatalf("expected 0 for empty catalog, got %d", max)
	}

	if err := repo.Create(newProduct("product-1", 7)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	max, err = repo.MaxPosition()
	if err != nil {
		t.Fatalf("max position failed: %v", err)
	}
	if max != 7 {
		t.Fatalf("expected max position 7, got %d", max)
	}
}

func TestProductRepository_DecrementSizes(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct("product-1", 1)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := repo.DecrementSizes("product-1", []domain.SizeLine{{Size: "M", Quantity: 3}})
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}

	stored, err := repo.Get("product-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Sizes[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", stored.Sizes[0].Quantity)
	}
}

func TestProductRepository_DecrementSizes_Insufficient(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct("product-1", 1)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Недостаток по одному размеру отклоняет всё списание целиком.
	err := repo.DecrementSizes("product-1", []domain.SizeLine{
		{Size: "M", Quantity: 2},
		{Size: "L", Quantity: 1},
	})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}

	stored, err := repo.Get("product-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Sizes[0].Quantity != 5 {
		t.Fatalf("expected stock unchanged, got %d", stored.Sizes[0].Quantity)
	}
}

func TestProductRepository_DecrementSizes_UnknownProduct(t *testing.T) {
	repo := memory.NewProductRepository()

	err := repo.DecrementSizes("missing", []domain.SizeLine{{Size: "M", Quantity: 1}})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(newProduct("product-1", 1)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete("product-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete("product-1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
