package notify

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MockPublisher — конфигурируемая заглушка NotificationPublisher для тестов.
type MockPublisher struct {
	mu sync.Mutex

	PublishErr error

	PublishCalls int
	Published    []domain.OutboxMessage
}

// NewMockPublisher возвращает mock с успешным сценарием по умолчанию.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish возвращает заранее настроенную ошибку и запоминает сообщения.
func (m *MockPublisher) Publish(msg domain.OutboxMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCalls++
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.Published = append(m.Published, msg)
	return nil
}

var _ domain.NotificationPublisher = (*MockPublisher)(nil)
