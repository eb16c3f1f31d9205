package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"

	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

// helperTestOrder - заказ для тестов
var helperTestOrder = &model.Order{
	OrderID:       "COD-1717171717171",
	Customer:      "buyer1",
	Amount:        money.Fils(15000),
	PaymentMethod: model.PaymentCOD,
	PromoCode:     "FB10",
	DiscountPercent: 10,
	Address: model.Address{
		FirstName: "Dana", LastName: "Al-Salem", Phone: "51234567",
		Street: "Block 4", City: "Salmiya", State: "Hawalli",
	},
	Items: []model.LineItem{
		{
			ProductID: "p-1", Name: "Barcelona Home 23/24", Size: "M",
			Quality: model.QualityFan, Patch: model.PatchNone,
			Instagram: "@buyer1", Price: money.Fils(15000),
		},
	},
	CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
}

// setupStorageWithMock настраивает postgresStorage с моком sqlx.DB
func setupStorageWithMock(t *testing.T) (*postgresStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("не удалось создать sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(db, "postgres")

	storage := &postgresStorage{
		db:     sqlxDB,
		tracer: otel.Tracer("postgres-storage-test"),
	}
	return storage, mock
}

func TestPostgresStorage_SaveOrder_Success(t *testing.T) {
	storage, mock := setupStorageWithMock(t)
	ctx := context.Background()
	order := helperTestOrder

	mock.ExpectBegin()

	// 1. Order Insert
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(order.OrderID, order.Customer, order.Amount, order.PaymentMethod, order.PromoCode, order.DiscountPercent,
			order.Address.FirstName, order.Address.LastName, order.Address.Phone,
			order.Address.Street, order.Address.City, order.Address.State, order.Address.Postal, order.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// 2. Item Insert
	item := order.Items[0]
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(order.OrderID, item.ProductID, item.Name, item.Image, item.Size, item.Quality, item.Sleeve,
			item.Patch, item.CustomName, item.Instagram, item.AddShorts, item.Price).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectCommit()

	err := storage.SaveOrder(ctx, order)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_SaveOrder_BeginError(t *testing.T) {
	storage, mock := setupStorageWithMock(t)
	mockErr := errors.New("begin error")

	mock.ExpectBegin().WillReturnError(mockErr)

	err := storage.SaveOrder(context.Background(), helperTestOrder)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка начала транзакции")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_SaveOrder_ItemError_Rollback(t *testing.T) {
	storage, mock := setupStorageWithMock(t)
	mockErr := errors.New("item insert error")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnError(mockErr)
	mock.ExpectRollback()

	err := storage.SaveOrder(context.Background(), helperTestOrder)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка сохранения позиции заказа")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_SaveOrder_CommitError(t *testing.T) {
	storage, mock := setupStorageWithMock(t)
	mockErr := errors.New("commit error")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(mockErr)

	err := storage.SaveOrder(context.Background(), helperTestOrder)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_UpdateProduct_NotFound(t *testing.T) {
	storage, mock := setupStorageWithMock(t)

	product := &model.Product{
		ID: "missing", Name: "Ghost", Price: money.Fils(9000),
		Image: "https://cdn.example.com/g.jpg",
		Categories: []string{model.CategoryRetro}, League: "La Liga",
	}

	mock.ExpectExec(`UPDATE products SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.UpdateProduct(context.Background(), product)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_DeleteProduct_Idempotent(t *testing.T) {
	storage, mock := setupStorageWithMock(t)

	// Нулевое число строк - не ошибка
	mock.ExpectExec(`DELETE FROM products`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.DeleteProduct(context.Background(), "missing")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_GetPromoPercent(t *testing.T) {
	storage, mock := setupStorageWithMock(t)

	mock.ExpectQuery(`SELECT percent FROM promo_codes`).
		WithArgs("FB10").
		WillReturnRows(sqlmock.NewRows([]string{"percent"}).AddRow(10))

	percent, err := storage.GetPromoPercent(context.Background(), "FB10")
	assert.NoError(t, err)
	assert.Equal(t, 10, percent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_GetPromoPercent_ExpiredOrMissing(t *testing.T) {
	storage, mock := setupStorageWithMock(t)

	// Истекший код не попадает в выборку и неотличим от несуществующего
	mock.ExpectQuery(`SELECT percent FROM promo_codes`).
		WithArgs("OLD10").
		WillReturnError(sql.ErrNoRows)

	_, err := storage.GetPromoPercent(context.Background(), "OLD10")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_GetProduct_NotFound(t *testing.T) {
	storage, mock := setupStorageWithMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := storage.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorage_Close(t *testing.T) {
	storage, mock := setupStorageWithMock(t)

	mock.ExpectClose()

	err := storage.Close()
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
