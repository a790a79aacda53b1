package memory

import (
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// adminRepositoryInMemory хранит учётные записи операторов в памяти.
type adminRepositoryInMemory struct {
	mu    sync.RWMutex
	users map[string]domain.AdminUser
}

// NewAdminRepository возвращает in-memory хранилище операторов.
func NewAdminRepository() domain.AdminRepository {
	return &adminRepositoryInMemory{users: make(map[string]domain.AdminUser)}
}

// Create сохраняет оператора; email служит ключом без учёта регистра.
func (r *adminRepositoryInMemory) Create(user domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.users[key]; exists {
		return domain.ErrAdminExists
	}
	r.users[key] = user
	return nil
}

// GetByEmail возвращает оператора или ErrAdminNotFound.
func (r *adminRepositoryInMemory) GetByEmail(email string) (domain.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return domain.AdminUser{}, domain.ErrAdminNotFound
	}
	return user, nil
}

var _ domain.AdminRepository = (*adminRepositoryInMemory)(nil)
