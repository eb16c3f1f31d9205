// Package cart владеет упорядоченной последовательностью позиций
// корзины одного покупателя. Репозиторий внедряется в хэндлеры явно,
// чтобы в тестах его можно было подменить.
package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
)

//go:generate mockgen -source=cart.go -destination=./mocks/repository_mock.go -package=mocks Repository

// Repository определяет операции над корзиной покупателя.
type Repository interface {
	// Load возвращает сохранённую корзину; отсутствие записи - пустая корзина.
	Load(ctx context.Context, customerID string) ([]model.LineItem, error)
	// Add дописывает позицию в хвост и сохраняет корзину целиком.
	Add(ctx context.Context, customerID string, item model.LineItem) error
	// Remove убирает позицию по индексу; выход за границы - тихий no-op.
	Remove(ctx context.Context, customerID string, index int) error
	// Clear опустошает корзину.
	Clear(ctx context.Context, customerID string) error
}

// postgresRepository хранит корзину как JSONB-массив: порядок позиций
// значим для отображения, и массив сохраняет его сам по себе.
type postgresRepository struct {
	db     *sqlx.DB
	tracer trace.Tracer
}

// NewRepository создает Postgres-реализацию репозитория корзин.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{
		db:     db,
		tracer: otel.Tracer("cart-repository"),
	}
}

// Load возвращает позиции корзины покупателя.
func (r *postgresRepository) Load(ctx context.Context, customerID string) ([]model.LineItem, error) {
	ctx, span := r.tracer.Start(ctx, "Cart.Load")
	defer span.End()

	var raw []byte
	err := r.db.GetContext(ctx, &raw, `SELECT items FROM carts WHERE customer_id = $1`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return []model.LineItem{}, nil
	}
	if err != nil {
		metrics.DBErrors.WithLabelValues("cart").Inc()
		return nil, fmt.Errorf("ошибка загрузки корзины: %w", err)
	}

	var items []model.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("ошибка разбора корзины: %w", err)
	}
	return items, nil
}

// Add дописывает позицию в хвост корзины.
func (r *postgresRepository) Add(ctx context.Context, customerID string, item model.LineItem) error {
	ctx, span := r.tracer.Start(ctx, "Cart.Add")
	defer span.End()

	items, err := r.Load(ctx, customerID)
	if err != nil {
		return err
	}
	return r.save(ctx, customerID, append(items, item))
}

// Remove убирает позицию по индексу, сохраняя относительный порядок остальных.
func (r *postgresRepository) Remove(ctx context.Context, customerID string, index int) error {
	ctx, span := r.tracer.Start(ctx, "Cart.Remove")
	defer span.End()

	items, err := r.Load(ctx, customerID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return nil
	}
	return r.save(ctx, customerID, append(items[:index], items[index+1:]...))
}

// Clear опустошает корзину покупателя.
func (r *postgresRepository) Clear(ctx context.Context, customerID string) error {
	ctx, span := r.tracer.Start(ctx, "Cart.Clear")
	defer span.End()

	return r.save(ctx, customerID, []model.LineItem{})
}

// save перезаписывает сохранённое представление корзины целиком.
func (r *postgresRepository) save(ctx context.Context, customerID string, items []model.LineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("ошибка сериализации корзины: %w", err)
	}

	query := `INSERT INTO carts (customer_id, items, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (customer_id) DO UPDATE SET items = $2, updated_at = now()`
	if _, err := r.db.ExecContext(ctx, query, customerID, raw); err != nil {
		metrics.DBErrors.WithLabelValues("cart").Inc()
		return fmt.Errorf("ошибка сохранения корзины: %w", err)
	}
	return nil
}
