// Package promo проверяет промокоды и считает скидку от суммы корзины.
// Реестр кодов живет в БД, а не в коде: добавление и истечение кода
// не требует редеплоя.
package promo

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/database"
	"fbpitch/internal/money"
)

// Тексты ошибок - пользовательские, поэтому на английском.
var (
	ErrEmptyCode   = errors.New("Please enter a promo code")
	ErrUnknownCode = errors.New("Invalid or expired promo code")
)

// Result - результат применения промокода.
type Result struct {
	Percent  int        `json:"percent"`
	Discount money.Fils `json:"discount"`
	Total    money.Fils `json:"total"`
}

// Resolver применяет промокод к подытогу корзины.
type Resolver struct {
	storage database.Storage
	tracer  trace.Tracer
}

// NewResolver создает резолвер над хранилищем промокодов.
func NewResolver(storage database.Storage) *Resolver {
	return &Resolver{
		storage: storage,
		tracer:  otel.Tracer("promo-resolver"),
	}
}

// Apply нормализует код (trim + uppercase), ищет его в реестре и
// возвращает процент скидки вместе с пересчитанным итогом.
// Один и тот же код всегда дает один и тот же процент.
func (r *Resolver) Apply(ctx context.Context, code string, subtotal money.Fils) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "Promo.Apply")
	defer span.End()

	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Result{Total: subtotal}, ErrEmptyCode
	}

	percent, err := r.storage.GetPromoPercent(ctx, normalized)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Скидка сбрасывается: неизвестный код не дает ничего.
			return Result{Total: subtotal}, ErrUnknownCode
		}
		return Result{Total: subtotal}, err
	}

	discount := subtotal.PercentOff(percent)
	return Result{
		Percent:  percent,
		Discount: discount,
		Total:    subtotal - discount,
	}, nil
}
