package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

//go:generate mockgen -source=postgres.go -destination=./mocks/storage_mock.go -package=mocks Storage

// ErrNotFound возвращается, когда запись отсутствует (или для промокода - истекла).
var ErrNotFound = errors.New("запись не найдена")

// ProductFilter - необязательные фильтры списка товаров.
type ProductFilter struct {
	Search   string // подстрока имени, без учета регистра
	Category string // точное совпадение категории
}

// OrderFilter - фильтры админского списка заказов.
type OrderFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount money.Fils // 0 - без ограничения
	Customer  string     // подстрока, без учета регистра
}

// Storage определяет интерфейс для работы с хранилищем магазина.
type Storage interface {
	// Каталог
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// Заказы
	SaveOrder(ctx context.Context, order *model.Order) error
	ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error)

	// Промокоды
	GetPromoPercent(ctx context.Context, code string) (int, error)

	// Пользователи
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)

	// Обратная связь
	SaveContactMessage(ctx context.Context, msg *model.ContactMessage) error
	ListContactMessages(ctx context.Context) ([]model.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id int64) error

	Close() error
}

// postgresStorage обеспечивает взаимодействие с базой данных PostgreSQL.
// Это конкретная реализация интерфейса Storage.
type postgresStorage struct {
	db     *sqlx.DB
	tracer trace.Tracer // Для трассировки
}

// Connect открывает подключение к БД и применяет миграции.
// Хэндл отдается наружу: его делят Storage и корзинный репозиторий.
func Connect(dbURL, migrationsPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	if err := runMigrations(dbURL, migrationsPath); err != nil {
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	return db, nil
}

// New оборачивает подключение в реализацию Storage.
func New(db *sqlx.DB) Storage {
	return &postgresStorage{
		db:     db,
		tracer: otel.Tracer("postgres-storage"),
	}
}

// runMigrations выполняет миграции БД до последней версии.
func runMigrations(dbURL, migrationsPath string) error {
	log.Println("Поиск и применение миграций...")

	// Важно: 'file://' префикс
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dbURL)
	if err != nil {
		return fmt.Errorf("не удалось создать экземпляр миграции: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("не удалось выполнить миграции: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("не удалось получить версию миграции: %w", err)
	}

	if dirty {
		log.Printf("БД в 'грязном' состоянии (dirty). Версия: %d. Рекомендуется проверка.", version)
	}

	log.Printf("Миграции успешно применены. Текущая версия БД: %d", version)
	return nil
}

// --- Каталог ---

const productColumns = `id, name, price_fils, image, shorts_image, long_sleeves_image,
	categories, league, patches, show_shorts, show_long_sleeves, tags, created_at, updated_at`

// ListProducts возвращает товары с необязательными фильтрами по имени и категории.
func (s *postgresStorage) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "DB.ListProducts")
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM products`, productColumns)
	var conds []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("$%d = ANY(categories)", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var products []model.Product
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		metrics.DBErrors.WithLabelValues("list_products").Inc()
		return nil, fmt.Errorf("ошибка получения товаров: %w", err)
	}
	return products, nil
}

// GetProduct извлекает товар по id.
func (s *postgresStorage) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetProduct")
	defer span.End()

	var product model.Product
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)
	if err := s.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DBErrors.WithLabelValues("get_product").Inc()
		return nil, fmt.Errorf("ошибка получения товара: %w", err)
	}
	return &product, nil
}

// CreateProduct сохраняет новый товар каталога.
func (s *postgresStorage) CreateProduct(ctx context.Context, product *model.Product) error {
	ctx, span := s.tracer.Start(ctx, "DB.CreateProduct")
	defer span.End()

	query := `INSERT INTO products (id, name, price_fils, image, shorts_image, long_sleeves_image,
		categories, league, patches, show_shorts, show_long_sleeves, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := s.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Price, product.Image, product.ShortsImage, product.LongSleevesImage,
		product.Categories, product.League, product.Patches, product.ShowShorts, product.ShowLongSleeves, product.Tags,
	); err != nil {
		metrics.DBErrors.WithLabelValues("create_product").Inc()
		return fmt.Errorf("ошибка сохранения товара: %w", err)
	}
	return nil
}

// UpdateProduct заменяет изменяемые поля товара. ErrNotFound, если id не существует.
func (s *postgresStorage) UpdateProduct(ctx context.Context, product *model.Product) error {
	ctx, span := s.tracer.Start(ctx, "DB.UpdateProduct")
	defer span.End()

	query := `UPDATE products SET name = $2, price_fils = $3, image = $4, shorts_image = $5,
		long_sleeves_image = $6, categories = $7, league = $8, patches = $9,
		show_shorts = $10, show_long_sleeves = $11, tags = $12, updated_at = now()
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query,
		product.ID, product.Name, product.Price, product.Image, product.ShortsImage, product.LongSleevesImage,
		product.Categories, product.League, product.Patches, product.ShowShorts, product.ShowLongSleeves, product.Tags,
	)
	if err != nil {
		metrics.DBErrors.WithLabelValues("update_product").Inc()
		return fmt.Errorf("ошибка обновления товара: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct удаляет товар. Операция идемпотентна: отсутствие id - не ошибка.
func (s *postgresStorage) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "DB.DeleteProduct")
	defer span.End()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		metrics.DBErrors.WithLabelValues("delete_product").Inc()
		return fmt.Errorf("ошибка удаления товара: %w", err)
	}
	return nil
}

// --- Заказы ---

// SaveOrder сохраняет заказ и снимок его позиций в одной транзакции.
func (s *postgresStorage) SaveOrder(ctx context.Context, order *model.Order) (err error) {
	ctx, span := s.tracer.Start(ctx, "DB.SaveOrder")
	defer span.End()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}

	// Используем defer с функцией, чтобы корректно обработать panic и ошибки
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Printf("Ошибка отката транзакции (после ошибки: %v): %v", err, rbErr)
			}
		}
	}()

	orderQuery := `INSERT INTO orders (order_id, customer, amount_fils, payment_method, promo_code, discount_percent,
		first_name, last_name, phone, street, city, state, postal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if _, err = tx.ExecContext(ctx, orderQuery,
		order.OrderID, order.Customer, order.Amount, order.PaymentMethod, order.PromoCode, order.DiscountPercent,
		order.Address.FirstName, order.Address.LastName, order.Address.Phone,
		order.Address.Street, order.Address.City, order.Address.State, order.Address.Postal, order.CreatedAt,
	); err != nil {
		return fmt.Errorf("ошибка сохранения заказа: %w", err)
	}

	for _, item := range order.Items {
		itemQuery := `INSERT INTO order_items (order_id, product_id, name, image, size, quality, sleeve,
			patch, custom_name, instagram, add_shorts, price_fils)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		if _, err = tx.ExecContext(ctx, itemQuery,
			order.OrderID, item.ProductID, item.Name, item.Image, item.Size, item.Quality, item.Sleeve,
			item.Patch, item.CustomName, item.Instagram, item.AddShorts, item.Price,
		); err != nil {
			return fmt.Errorf("ошибка сохранения позиции заказа: %w", err)
		}
	}

	err = tx.Commit()
	return err
}

// ListOrders возвращает заказы с позициями, новые первыми.
// Одним запросом, чтобы не ловить проблему N+1.
func (s *postgresStorage) ListOrders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "DB.ListOrders")
	defer span.End()

	query := `
        SELECT
            o.order_id, o.customer, o.amount_fils, o.payment_method, o.promo_code, o.discount_percent, o.created_at,
            o.first_name "address.first_name", o.last_name "address.last_name", o.phone "address.phone",
            o.street "address.street", o.city "address.city", o.state "address.state", o.postal "address.postal",
            COALESCE(i.product_id, '') "items.product_id", COALESCE(i.name, '') "items.name",
            COALESCE(i.image, '') "items.image", COALESCE(i.size, '') "items.size",
            COALESCE(i.quality, '') "items.quality", COALESCE(i.sleeve, '') "items.sleeve",
            COALESCE(i.patch, '') "items.patch", COALESCE(i.custom_name, '') "items.custom_name",
            COALESCE(i.instagram, '') "items.instagram", COALESCE(i.add_shorts, FALSE) "items.add_shorts",
            COALESCE(i.price_fils, 0) "items.price_fils"
        FROM orders o
        LEFT JOIN order_items i ON o.order_id = i.order_id`

	var conds []string
	var args []interface{}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conds = append(conds, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("o.created_at <= $%d", len(args)))
	}
	if filter.MinAmount > 0 {
		args = append(args, filter.MinAmount)
		conds = append(conds, fmt.Sprintf("o.amount_fils >= $%d", len(args)))
	}
	if filter.Customer != "" {
		args = append(args, "%"+filter.Customer+"%")
		conds = append(conds, fmt.Sprintf("o.customer ILIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY o.created_at DESC, o.order_id, i.id"

	type orderRow struct {
		model.Order
		Item model.LineItem `db:"items"`
	}

	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		metrics.DBErrors.WithLabelValues("list_orders").Inc()
		return nil, fmt.Errorf("ошибка получения заказов: %w", err)
	}

	// Группируем позиции по заказам, сохраняя порядок выборки.
	var orders []model.Order
	index := make(map[string]int)
	for _, row := range rows {
		pos, exists := index[row.Order.OrderID]
		if !exists {
			order := row.Order
			order.Items = []model.LineItem{}
			orders = append(orders, order)
			pos = len(orders) - 1
			index[order.OrderID] = pos
		}
		if row.Item.ProductID != "" || row.Item.Name != "" {
			orders[pos].Items = append(orders[pos].Items, row.Item)
		}
	}

	return orders, nil
}

// --- Промокоды ---

// GetPromoPercent возвращает процент скидки для кода.
// Истекшие коды неотличимы от несуществующих: и те и другие - ErrNotFound.
func (s *postgresStorage) GetPromoPercent(ctx context.Context, code string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetPromoPercent")
	defer span.End()

	var percent int
	query := `SELECT percent FROM promo_codes WHERE code = $1 AND (expires_at IS NULL OR expires_at > now())`
	if err := s.db.GetContext(ctx, &percent, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		metrics.DBErrors.WithLabelValues("get_promo").Inc()
		return 0, fmt.Errorf("ошибка поиска промокода: %w", err)
	}
	return percent, nil
}

// --- Пользователи ---

// CreateUser сохраняет новую учётную запись.
func (s *postgresStorage) CreateUser(ctx context.Context, user *model.User) error {
	ctx, span := s.tracer.Start(ctx, "DB.CreateUser")
	defer span.End()

	query := `INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, user.Username, user.PasswordHash, user.Role); err != nil {
		metrics.DBErrors.WithLabelValues("create_user").Inc()
		return fmt.Errorf("ошибка сохранения пользователя: %w", err)
	}
	return nil
}

// GetUser извлекает учётную запись по имени.
func (s *postgresStorage) GetUser(ctx context.Context, username string) (*model.User, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetUser")
	defer span.End()

	var user model.User
	query := `SELECT username, password_hash, role, created_at FROM users WHERE username = $1`
	if err := s.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DBErrors.WithLabelValues("get_user").Inc()
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return &user, nil
}

// --- Обратная связь ---

// SaveContactMessage сохраняет сообщение формы обратной связи.
func (s *postgresStorage) SaveContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	ctx, span := s.tracer.Start(ctx, "DB.SaveContactMessage")
	defer span.End()

	query := `INSERT INTO contact_messages (name, email, message) VALUES ($1, $2, $3) RETURNING id`
	if err := s.db.GetContext(ctx, &msg.ID, query, msg.Name, msg.Email, msg.Message); err != nil {
		metrics.DBErrors.WithLabelValues("save_contact").Inc()
		return fmt.Errorf("ошибка сохранения сообщения: %w", err)
	}
	return nil
}

// ListContactMessages возвращает сообщения, новые первыми.
func (s *postgresStorage) ListContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	ctx, span := s.tracer.Start(ctx, "DB.ListContactMessages")
	defer span.End()

	var messages []model.ContactMessage
	query := `SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &messages, query); err != nil {
		metrics.DBErrors.WithLabelValues("list_contacts").Inc()
		return nil, fmt.Errorf("ошибка получения сообщений: %w", err)
	}
	return messages, nil
}

// DeleteContactMessage удаляет сообщение по id. Идемпотентна.
func (s *postgresStorage) DeleteContactMessage(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "DB.DeleteContactMessage")
	defer span.End()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id); err != nil {
		metrics.DBErrors.WithLabelValues("delete_contact").Inc()
		return fmt.Errorf("ошибка удаления сообщения: %w", err)
	}
	return nil
}

// Close закрывает соединение с БД.
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
