package domain

// ProductSort задаёт порядок выборки каталога.
type ProductSort string

const (
	// ProductSortNewestFirst — по дате создания, от новых к старым (админ-листинг).
	ProductSortNewestFirst ProductSort = "newest_first"
	// ProductSortByPosition — по ручному рангу отображения, по возрастанию (витрина).
	ProductSortByPosition ProductSort = "by_position"
)

// ProductRepository описывает требования к хранилищу каталога.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrDuplicateID, если ID уже занят.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// Save перезаписывает существующий товар целиком.
	Save(product Product) error
	// Delete удаляет товар; ErrProductNotFound, если его нет.
	Delete(id string) error
	// List возвращает каталог в заданном порядке.
	List(sort ProductSort) ([]Product, error)
	// MaxPosition возвращает наибольший занятый ранг отображения (0 для пустого каталога).
	MaxPosition() (int, error)
	// DecrementSizes условно списывает остатки одного товара: изменение
	// применяется только если по каждой запрошенной размер-строке живой
	// остаток достаточен. Недостаток или отсутствие размера — ErrOutOfStock,
	// отсутствие товара — ErrProductNotFound. Обновление одного документа атомарно.
	DecrementSizes(id string, lines []SizeLine) error
}

// OrderRepository описывает требования к хранилищу ожидающих заказов.
type OrderRepository interface {
	Create(order Order) error
	// Get возвращает заказ или ErrOrderNotFound.
	Get(id string) (Order, error)
	// List возвращает все ожидающие заказы, от новых к старым.
	List() ([]Order, error)
	// Delete удаляет заказ; ErrOrderNotFound, если он уже резолвлен.
	Delete(id string) error
}

// HistoryRepository описывает хранилище архивных записей резолюций.
type HistoryRepository interface {
	Create(record OrderHistory) error
	// ListNewestFirst возвращает историю, от новых записей к старым.
	ListNewestFirst() ([]OrderHistory, error)
}

// AdminRepository описывает хранилище учётных записей операторов.
type AdminRepository interface {
	// Create сохраняет оператора; ErrAdminExists, если email уже занят.
	Create(user AdminUser) error
	// GetByEmail возвращает оператора или ErrAdminNotFound.
	GetByEmail(email string) (AdminUser, error)
}
