package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// MoveDirection задаёт направление точечного сдвига товара в витрине.
type MoveDirection string

const (
	// MoveForward — обмен с соседом, стоящим дальше по возрастанию ранга.
	MoveForward MoveDirection = "forward"
	// MoveBackward — обмен с соседом, стоящим раньше по возрастанию ранга.
	MoveBackward MoveDirection = "backward"
)

// Valid сообщает, известно ли направление.
func (d MoveDirection) Valid() bool {
	return d == MoveForward || d == MoveBackward
}

// Service управляет каталогом: CRUD товаров и ручной порядок витрины.
type Service struct {
	products domain.ProductRepository
	images   domain.ImageStore
	logger   *log.Entry
}

// Option настраивает Service.
type Option func(*Service)

// WithImageStore подключает внешнее хранилище изображений: при удалении
// товара его ссылки будут вычищены best-effort.
func WithImageStore(store domain.ImageStore) Option {
	return func(s *Service) {
		s.images = store
	}
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository, logger *log.Entry, options ...Option) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	s := &Service{
		products: products,
		logger:   logger,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Create сохраняет новый товар. Ранг отображения назначается автоматически:
// новый товар встаёт в конец витрины (max+1).
func (s *Service) Create(product domain.Product) (domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if violations := product.ValidateInvariants(); len(violations) > 0 {
		return domain.Product{}, fmt.Errorf("validate product: %w", violations[0])
	}

	maxPos, err := s.products.MaxPosition()
	if err != nil {
		return domain.Product{}, fmt.Errorf("resolve display position: %w", err)
	}

	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.Position = maxPos + 1
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"category":   product.Category,
		"position":   product.Position,
	}).Info("product created")

	return product, nil
}

// Get возвращает товар по идентификатору.
func (s *Service) Get(id string) (domain.Product, error) {
	return s.products.Get(id)
}

// Update перезаписывает товар. Дата создания и ранг отображения берутся из
// сохранённого документа: порядок витрины меняется только через Reindex/Swap.
func (s *Service) Update(product domain.Product) (domain.Product, error) {
	stored, err := s.products.Get(product.ID)
	if err != nil {
		return domain.Product{}, err
	}

	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if violations := product.ValidateInvariants(); len(violations) > 0 {
		return domain.Product{}, fmt.Errorf("validate product: %w", violations[0])
	}

	product.Position = stored.Position
	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Save(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}

	s.logger.WithField("product_id", product.ID).Info("product updated")
	return product, nil
}

// Delete удаляет товар и best-effort вычищает его изображения из внешнего
// хранилища. Ошибка очистки изображений логируется, но удаление не откатывает.
func (s *Service) Delete(id string) error {
	stored, err := s.products.Get(id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if s.images != nil {
		for _, ref := range stored.Images {
			if err := s.images.Remove(ref); err != nil {
				s.logger.WithFields(log.Fields{
					"product_id": id,
					"image_ref":  ref,
					"error":      err.Error(),
				}).Warn("image cleanup failed")
			}
		}
	}

	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// List возвращает каталог в запрошенном порядке: by_position — витрина,
// newest_first — админ-листинг.
func (s *Service) List(order domain.ProductSort) ([]domain.Product, error) {
	return s.products.List(order)
}

// Categories возвращает отсортированный список уникальных категорий каталога.
func (s *Service) Categories() ([]string, error) {
	products, err := s.products.List(domain.ProductSortByPosition)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// Reindex присваивает товарам последовательные ранги 1..N в порядке
// переданных идентификаторов. Это канонический способ перестановки:
// список обязан содержать каждый товар каталога ровно один раз.
func (s *Service) Reindex(orderedIDs []string) error {
	products, err := s.products.List(domain.ProductSortByPosition)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	if len(orderedIDs) != len(products) {
		return fmt.Errorf("reorder list has %d ids, catalog has %d products", len(orderedIDs), len(products))
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := time.Now().UTC()
	for i, id := range orderedIDs {
		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder product %s: %w", id, domain.ErrProductNotFound)
		}
		delete(byID, id)

		p.Position = i + 1
		p.UpdatedAt = now
		if err := s.products.Save(p); err != nil {
			return fmt.Errorf("save position for %s: %w", id, err)
		}
	}

	s.logger.WithField("count", len(orderedIDs)).Info("catalog reindexed")
	return nil
}

// Swap меняет товар местами с соседом по витрине. Попытка сдвинуть первый
// товар назад или последний вперёд возвращает ErrCannotMove.
func (s *Service) Swap(productID string, direction MoveDirection) error {
	if !direction.Valid() {
		return fmt.Errorf("unknown move direction %q", direction)
	}

	products, err := s.products.List(domain.ProductSortByPosition)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	idx := -1
	for i, p := range products {
		if p.ID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.ErrProductNotFound
	}

	neighbor := idx + 1
	if direction == MoveBackward {
		neighbor = idx - 1
	}
	if neighbor < 0 || neighbor >= len(products) {
		return domain.ErrCannotMove
	}

	now := time.Now().UTC()
	a, b := products[idx], products[neighbor]
	a.Position, b.Position = b.Position, a.Position
	a.UpdatedAt, b.UpdatedAt = now, now

	if err := s.products.Save(a); err != nil {
		return fmt.Errorf("save position for %s: %w", a.ID, err)
	}
	if err := s.products.Save(b); err != nil {
		return fmt.Errorf("save position for %s: %w", b.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"direction":  string(direction),
	}).Info("product moved")
	return nil
}
