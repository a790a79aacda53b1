package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory каталог для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар, если ID ещё не занят.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrDuplicateID
	}
	r.items[product.ID] = cloneProduct(product)
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return cloneProduct(product), nil
}

// Save перезаписывает существующий товар целиком.
func (r *productRepositoryInMemory) Save(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = cloneProduct(product)
	return nil
}

// Delete удаляет товар из каталога.
func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// List возвращает каталог в заданном порядке.
func (r *productRepositoryInMemory) List(order domain.ProductSort) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		result = append(result, cloneProduct(product))
	}

	switch order {
	case domain.ProductSortByPosition:
		sort.Slice(result, func(i, j int) bool {
			if result[i].Position != result[j].Position {
				return result[i].Position < result[j].Position
			}
			return result[i].ID < result[j].ID
		})
	default:
		sort.Slice(result, func(i, j int) bool {
			if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
				return result[i].CreatedAt.After(result[j].CreatedAt)
			}
			return result[i].ID > result[j].ID
		})
	}

	return result, nil
}

// MaxPosition возвращает наибольший занятый ранг отображения.
func (r *productRepositoryInMemory) MaxPosition() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for _, product := range r.items {
		if product.Position > max {
			max = product.Position
		}
	}
	return max, nil
}

// DecrementSizes условно списывает остатки: проверка достаточности и само
// списание выполняются под одной блокировкой, поэтому для конкурентных
// акцептов обновление атомарно.
func (r *productRepositoryInMemory) DecrementSizes(id string, lines []domain.SizeLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[id]
	if !ok {
		return domain.ErrProductNotFound
	}

	for _, line := range lines {
		idx := product.FindSize(line.Size)
		if idx == -1 || product.Sizes[idx].Quantity < line.Quantity {
			return domain.ErrOutOfStock
		}
	}

	updated := cloneProduct(product)
	for _, line := range lines {
		updated.DecrementSize(line.Size, line.Quantity)
	}
	r.items[id] = updated
	return nil
}

// cloneProduct копирует товар вместе со слайсами, чтобы избежать
// непредсказуемых мутаций извне.
func cloneProduct(p domain.Product) domain.Product {
	cp := p
	cp.Sizes = append([]domain.SizeStock(nil), p.Sizes...)
	cp.Images = append([]string(nil), p.Images...)
	return cp
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
