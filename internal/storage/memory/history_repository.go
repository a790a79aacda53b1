package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// historyRepositoryInMemory хранит архивные записи резолюций в памяти.
type historyRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.OrderHistory
}

// NewHistoryRepository возвращает in-memory хранилище истории заказов.
func NewHistoryRepository() domain.HistoryRepository {
	return &historyRepositoryInMemory{
		items: make(map[string]domain.OrderHistory),
	}
}

// Create сохраняет архивную запись. Запись терминальна и больше не изменяется.
func (r *historyRepositoryInMemory) Create(record domain.OrderHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if _, exists := r.items[record.ID]; exists {
		return domain.ErrDuplicateID
	}
	record.Products = append([]domain.HistoryLine(nil), record.Products...)
	r.items[record.ID] = record
	return nil
}

// ListNewestFirst возвращает историю, отсортированную от новых записей к старым.
func (r *historyRepositoryInMemory) ListNewestFirst() ([]domain.OrderHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.OrderHistory, 0, len(r.items))
	for _, record := range r.items {
		record.Products = append([]domain.HistoryLine(nil), record.Products...)
		result = append(result, record)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

var _ domain.HistoryRepository = (*historyRepositoryInMemory)(nil)
