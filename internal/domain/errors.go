package domain

import "errors"

var (
	// Ошибка отсутствующего имени покупателя.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствующего email покупателя.
	ErrCustomerEmailRequired = errors.New("customer email is required")
	// Ошибка отсутствующего адреса доставки.
	ErrCustomerAddressRequired = errors.New("customer address is required")
	// Ошибка отсутствующего телефона покупателя.
	ErrCustomerPhoneRequired = errors.New("customer phone is required")
	// Ошибка пустой корзины при оформлении заказа.
	ErrCartEmpty = errors.New("cart must be a non-empty list")
	// Ошибка позиции корзины без ссылки на товар.
	ErrCartItemProductRequired = errors.New("cart item product reference is required")
	// Ошибка позиции корзины без имени товара.
	ErrCartItemNameRequired = errors.New("cart item name is required")
	// Ошибка отрицательной цены в снимке позиции.
	ErrCartItemPriceNegative = errors.New("cart item price must be non-negative")
	// Ошибка позиции корзины без размер-строк.
	ErrCartItemSizesRequired = errors.New("cart item must contain at least one size line")
	// Ошибка при некорректном количестве в размер-строке (<= 0).
	ErrSizeLineQtyInvalid = errors.New("size line quantity must be greater than zero")

	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отсутствующей категории товара.
	ErrProductCategoryRequired = errors.New("product category is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceNegative = errors.New("product price must be non-negative")
	// Ошибка пустой метки размера.
	ErrSizeLabelRequired = errors.New("size label is required")
	// Ошибка повторяющейся метки размера внутри товара.
	ErrSizeLabelDuplicate = errors.New("size labels must be unique within a product")
	// Ошибка отрицательного остатка по размеру.
	ErrSizeQuantityNegative = errors.New("size quantity must be non-negative")

	// ErrOrderNotFound возвращается, если ожидающий заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrProductNotFound возвращается, если товар отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrOutOfStock — бизнес-отказ: запрошенное количество превышает живой остаток.
	ErrOutOfStock = errors.New("one or more items are out of stock")
	// ErrDuplicateID сигнализирует о попытке создать запись с занятым ID.
	ErrDuplicateID = errors.New("record with this id already exists")
	// ErrCannotMove возвращается при попытке сдвинуть крайний товар за границу списка.
	ErrCannotMove = errors.New("cannot move further")
	// ErrAdminNotFound возвращается, если оператор с таким email не найден.
	ErrAdminNotFound = errors.New("admin user not found")
	// ErrAdminExists возвращается при попытке повторно создать оператора.
	ErrAdminExists = errors.New("admin user already exists")
	// ErrOutboxPublish — ошибка при доставке сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsOutOfStock проверяет, является ли ошибка бизнес-отказом по остаткам.
func IsOutOfStock(err error) bool {
	return errors.Is(err, ErrOutOfStock)
}
