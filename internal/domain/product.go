package domain

import "time"

// SizeStock описывает остаток товара по одному размеру.
type SizeStock struct {
	// Size — метка размера (например, "M" или "42").
	Size string
	// Quantity — доступное количество, всегда >= 0.
	Quantity int
}

// Product агрегирует карточку товара каталога вместе с остатками по размерам.
type Product struct {
	ID       string
	Name     string
	Category string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor  int64
	Description string
	Sizes       []SizeStock
	// Images хранит непрозрачные ссылки на изображения во внешнем хранилище.
	Images []string
	// Position — ручной ранг отображения: по возрастанию, начиная с 1.
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindSize возвращает индекс размера в списке остатков или -1, если его нет.
func (p *Product) FindSize(size string) int {
	for i, s := range p.Sizes {
		if s.Size == size {
			return i
		}
	}
	return -1
}

// DecrementSize уменьшает остаток размера на qty с нижней границей в ноль.
// Возвращает false, если размер не найден.
func (p *Product) DecrementSize(size string, qty int) bool {
	idx := p.FindSize(size)
	if idx == -1 {
		return false
	}
	p.Sizes[idx].Quantity -= qty
	if p.Sizes[idx].Quantity < 0 {
		p.Sizes[idx].Quantity = 0
	}
	return true
}

// ValidateInvariants проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Category == "" {
		errs = append(errs, ErrProductCategoryRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrProductPriceNegative)
	}

	// Метки размеров должны быть уникальны внутри товара, остатки — неотрицательны.
	seen := make(map[string]struct{}, len(p.Sizes))
	for _, s := range p.Sizes {
		if s.Size == "" {
			errs = append(errs, ErrSizeLabelRequired)
			continue
		}
		if _, dup := seen[s.Size]; dup {
			errs = append(errs, ErrSizeLabelDuplicate)
		}
		seen[s.Size] = struct{}{}
		if s.Quantity < 0 {
			errs = append(errs, ErrSizeQuantityNegative)
		}
	}

	return errs
}
