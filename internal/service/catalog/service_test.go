package catalog

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type fakeImageStore struct {
	removed   []string
	removeErr error
}

func (f *fakeImageStore) Upload(filename string, data []byte) (string, error) {
	return "ref-" + filename, nil
}

func (f *fakeImageStore) Remove(ref string) error {
	f.removed = append(f.removed, ref)
	return f.removeErr
}

func newService(t *testing.T, options ...Option) (*Service, domain.ProductRepository) {
	t.Helper()

	products := memory.NewProductRepository()
	return NewService(products, nil, options...), products
}

func makeProduct(name string) domain.Product {
	return domain.Product{
		Name:       name,
		Category:   "Фудбал",
		PriceMinor: 100,
		Sizes:      []domain.SizeStock{{Size: "M", Quantity: 5}},
	}
}

func TestCreate_AssignsTailPosition(t *testing.T) {
	svc, _ := newService(t)

	first, err := svc.Create(makeProduct("Дрес"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := svc.Create(makeProduct("Шал"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.Position != 1 || second.Position != 2 {
		t.Fatalf("expected positions 1 and 2, got %d and %d", first.Position, second.Position)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct generated ids, got %q and %q", first.ID, second.ID)
	}
}

func TestCreate_RejectsInvalid(t *testing.T) {
	svc, repo := newService(t)

	p := makeProduct("Дрес")
	p.PriceMinor = -1
	if _, err := svc.Create(p); !errors.Is(err, domain.ErrProductPriceNegative) {
		t.Fatalf("expected price error, got %v", err)
	}

	all, err := repo.List(domain.ProductSortByPosition)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty catalog, got %d products", len(all))
	}
}

func TestUpdate_PreservesPositionAndCreatedAt(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(makeProduct("Дрес"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	changed := created
	changed.Name = "Дрес 2024"
	changed.Position = 99

	updated, err := svc.Update(changed)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Position != created.Position {
		t.Fatalf("expected position %d preserved, got %d", created.Position, updated.Position)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("expected createdAt preserved")
	}
	if updated.Name != "Дрес 2024" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService(t)

	p := makeProduct("Дрес")
	p.ID = "missing"
	if _, err := svc.Update(p); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_CleansImages(t *testing.T) {
	store := &fakeImageStore{}
	svc, repo := newService(t, WithImageStore(store))

	p := makeProduct("Дрес")
	p.Images = []string{"ref-1", "ref-2"}
	created, err := svc.Create(p)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.removed) != 2 {
		t.Fatalf("expected 2 image removals, got %d", len(store.removed))
	}
	if _, err := repo.Get(created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected product gone, got %v", err)
	}
}

func TestDelete_ImageCleanupFailureIsNotFatal(t *testing.T) {
	store := &fakeImageStore{removeErr: errors.New("storage unavailable")}
	svc, _ := newService(t, WithImageStore(store))

	p := makeProduct("Дрес")
	p.Images = []string{"ref-1"}
	created, err := svc.Create(p)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("expected delete to succeed despite image error, got %v", err)
	}
}

func TestCategories_DistinctSorted(t *testing.T) {
	svc, _ := newService(t)

	for _, tc := range []struct{ name, category string }{
		{"Дрес", "Фудбал"},
		{"Шал", "Фудбал"},
		{"Топка", "Кошарка"},
	} {
		p := makeProduct(tc.name)
		p.Category = tc.category
		if _, err := svc.Create(p); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	categories, err := svc.Categories()
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Кошарка" || categories[1] != "Фудбал" {
		t.Fatalf("unexpected categories %v", categories)
	}
}

func TestReindex_AssignsSequentialPositions(t *testing.T) {
	svc, repo := newService(t)

	a, _ := svc.Create(makeProduct("А"))
	b, _ := svc.Create(makeProduct("Б"))
	c, _ := svc.Create(makeProduct("В"))

	if err := svc.Reindex([]string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reindex failed: %v", err)
	}

	listed, err := repo.List(domain.ProductSortByPosition)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	gotIDs := []string{listed[0].ID, listed[1].ID, listed[2].ID}
	wantIDs := []string{c.ID, a.ID, b.ID}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("position %d: expected %s, got %s", i+1, wantIDs[i], gotIDs[i])
		}
		if listed[i].Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, listed[i].Position)
		}
	}
}

func TestReindex_RejectsIncompleteList(t *testing.T) {
	svc, _ := newService(t)

	a, _ := svc.Create(makeProduct("А"))
	if _, err := svc.Create(makeProduct("Б")); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Reindex([]string{a.ID}); err == nil {
		t.Fatal("expected error for incomplete id list")
	}
	if err := svc.Reindex([]string{a.ID, "missing"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func TestSwap_Neighbors(t *testing.T) {
	svc, repo := newService(t)

	a, _ := svc.Create(makeProduct("А"))
	b, _ := svc.Create(makeProduct("Б"))

	if err := svc.Swap(a.ID, MoveForward); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	listed, err := repo.List(domain.ProductSortByPosition)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed[0].ID != b.ID || listed[1].ID != a.ID {
		t.Fatalf("expected order [%s %s], got [%s %s]", b.ID, a.ID, listed[0].ID, listed[1].ID)
	}

	if err := svc.Swap(a.ID, MoveBackward); err != nil {
		t.Fatalf("swap back failed: %v", err)
	}
	listed, _ = repo.List(domain.ProductSortByPosition)
	if listed[0].ID != a.ID {
		t.Fatalf("expected %s first after swap back, got %s", a.ID, listed[0].ID)
	}
}

func TestSwap_Boundaries(t *testing.T) {
	svc, _ := newService(t)

	a, _ := svc.Create(makeProduct("А"))
	b, _ := svc.Create(makeProduct("Б"))

	if err := svc.Swap(a.ID, MoveBackward); !errors.Is(err, domain.ErrCannotMove) {
		t.Fatalf("expected cannot-move for first backward, got %v", err)
	}
	if err := svc.Swap(b.ID, MoveForward); !errors.Is(err, domain.ErrCannotMove) {
		t.Fatalf("expected cannot-move for last forward, got %v", err)
	}
	if err := svc.Swap("missing", MoveForward); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Swap(a.ID, MoveDirection("sideways")); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}
