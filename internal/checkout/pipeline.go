// Package checkout превращает корзину и данные доставки в сохраненный
// заказ: валидация адреса, подтверждение платежа у шлюза, запись в БД
// и постановка уведомлений в очередь.
package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"fbpitch/internal/cart"
	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
	"fbpitch/internal/validator"
)

//go:generate mockgen -source=pipeline.go -destination=./mocks/pipeline_mock.go -package=mocks Gateway,Notifier

// Gateway подтверждает захваченный платеж у внешнего шлюза.
type Gateway interface {
	VerifyOrder(ctx context.Context, gatewayOrderID string, expected money.Fils) error
}

// Notifier ставит задачу уведомлений о заказе в очередь.
type Notifier interface {
	EnqueueOrder(ctx context.Context, order *model.Order) error
}

// SubmitRequest - входные данные одной попытки оформления.
type SubmitRequest struct {
	Customer        string           `json:"customer"`
	PaymentMethod   string           `json:"paymentMethod"`
	GatewayOrderID  string           `json:"orderId,omitempty"` // id заказа в шлюзе (PayPal)
	Amount          money.Fils       `json:"amount"`
	PromoCode       string           `json:"promoCode,omitempty"`
	DiscountPercent int              `json:"discountPercent"`
	Address         model.Address    `json:"address"`
	Items           []model.LineItem `json:"items"`
}

// Pipeline - конвейер оформления заказа.
type Pipeline struct {
	storage  database.Storage
	carts    cart.Repository
	gateway  Gateway
	notifier Notifier
	tracer   trace.Tracer
}

// NewPipeline собирает конвейер из зависимостей.
func NewPipeline(storage database.Storage, carts cart.Repository, gateway Gateway, notifier Notifier) *Pipeline {
	return &Pipeline{
		storage:  storage,
		carts:    carts,
		gateway:  gateway,
		notifier: notifier,
		tracer:   otel.Tracer("checkout-pipeline"),
	}
}

// Submit проводит попытку оформления через все стадии.
//
// Порядок жесткий: валидация адреса, подтверждение платежа (для PayPal),
// запись заказа, и только после durable-записи - уведомления. Уведомления
// best-effort: их отказ не откатывает заказ и не портит ответ покупателю.
func (p *Pipeline) Submit(ctx context.Context, req *SubmitRequest) (*model.Order, error) {
	ctx, span := p.tracer.Start(ctx, "Checkout.Submit")
	defer span.End()

	if err := p.validate(req); err != nil {
		return nil, err
	}

	// Выбор ветки оплаты.
	orderID := req.GatewayOrderID
	switch req.PaymentMethod {
	case model.PaymentCOD:
		orderID = fmt.Sprintf("COD-%d", time.Now().UnixMilli())
	case model.PaymentPayPal:
		if orderID == "" {
			metrics.CheckoutFailures.WithLabelValues("invalid_data").Inc()
			return nil, newError(KindInvalidOrderData, "Missing gateway order id")
		}
		// Fail closed: заказ с неподтвержденным платежом в БД не попадает.
		if err := p.gateway.VerifyOrder(ctx, orderID, req.Amount); err != nil {
			log.Printf("Платеж %s не подтвержден: %v", orderID, err)
			metrics.PaymentVerifications.WithLabelValues("rejected").Inc()
			metrics.CheckoutFailures.WithLabelValues("payment_unverified").Inc()
			return nil, newError(KindPaymentUnverified, "Payment not verified")
		}
		metrics.PaymentVerifications.WithLabelValues("verified").Inc()
	}

	order := &model.Order{
		OrderID:         orderID,
		Customer:        req.Customer,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		PromoCode:       strings.ToUpper(strings.TrimSpace(req.PromoCode)),
		DiscountPercent: req.DiscountPercent,
		Address:         req.Address,
		Items:           req.Items,
		CreatedAt:       time.Now().UTC(),
	}

	if err := p.storage.SaveOrder(ctx, order); err != nil {
		log.Printf("Ошибка сохранения заказа %s: %v", order.OrderID, err)
		metrics.CheckoutFailures.WithLabelValues("persistence").Inc()
		return nil, newError(KindServerError, "Server error")
	}
	metrics.OrdersSubmitted.WithLabelValues(order.PaymentMethod).Inc()

	// Уведомления строго после записи: никогда не уведомляем о заказе,
	// которого нет в БД. Отказ очереди - в лог, не покупателю.
	if err := p.notifier.EnqueueOrder(ctx, order); err != nil {
		log.Printf("Не удалось поставить уведомления для заказа %s: %v", order.OrderID, err)
	}

	// Успешное оформление опустошает корзину покупателя.
	if err := p.carts.Clear(ctx, order.Customer); err != nil {
		log.Printf("Не удалось очистить корзину %s: %v", order.Customer, err)
	}

	return order, nil
}

// validate проверяет полноту запроса и формат телефона.
// Частично заполненный адрес возвращается покупателю на исправление
// как есть, конвейер его не трогает.
func (p *Pipeline) validate(req *SubmitRequest) error {
	if req.Customer == "" || req.PaymentMethod == "" || len(req.Items) == 0 || !req.Amount.IsPositive() {
		metrics.CheckoutFailures.WithLabelValues("invalid_data").Inc()
		return newError(KindInvalidOrderData, "Missing required order fields")
	}
	if req.PaymentMethod != model.PaymentCOD && req.PaymentMethod != model.PaymentPayPal {
		metrics.CheckoutFailures.WithLabelValues("invalid_data").Inc()
		return newError(KindInvalidOrderData, "Unknown payment method")
	}

	addr := req.Address
	if addr.FirstName == "" || addr.LastName == "" || addr.Phone == "" ||
		addr.Street == "" || addr.City == "" || addr.State == "" {
		metrics.CheckoutFailures.WithLabelValues("invalid_data").Inc()
		return newError(KindInvalidOrderData, "All address fields are required")
	}
	if !validator.IsKuwaitPhone(strings.TrimSpace(addr.Phone)) {
		metrics.CheckoutFailures.WithLabelValues("invalid_phone").Inc()
		return newError(KindInvalidPhoneFormat, "Phone must be a valid 8-digit Kuwait number")
	}

	for i := range req.Items {
		if err := validator.ValidateStruct(&req.Items[i]); err != nil {
			metrics.CheckoutFailures.WithLabelValues("invalid_data").Inc()
			return newError(KindInvalidOrderData, fmt.Sprintf("Invalid line item %d", i))
		}
	}
	return nil
}
