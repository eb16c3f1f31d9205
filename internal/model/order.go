package model

import (
	"time"

	"fbpitch/internal/money"
)

// Способы оплаты.
const (
	PaymentCOD    = "COD"
	PaymentPayPal = "PayPal"
)

// Address - адрес доставки. Страна фиксирована (Кувейт), поэтому
// отдельного поля для неё нет. Телефон - местный мобильный формат:
// 8 цифр, первая 5, 6 или 9.
type Address struct {
	FirstName string `json:"firstName" db:"first_name" validate:"required"`
	LastName  string `json:"lastName" db:"last_name" validate:"required"`
	Phone     string `json:"phone" db:"phone" validate:"required,kwphone"`
	Street    string `json:"street" db:"street" validate:"required"`
	City      string `json:"city" db:"city" validate:"required"`
	State     string `json:"state" db:"state" validate:"required"`
	Postal    string `json:"postal,omitempty" db:"postal"`
}

// Order - оформленный заказ. Содержит денормализованный снимок позиций
// и адреса: правки каталога задним числом заказ не меняют.
// После сохранения заказ неизменяем.
type Order struct {
	OrderID         string     `json:"orderId" db:"order_id" validate:"required"`
	Customer        string     `json:"customer" db:"customer" validate:"required"`
	Amount          money.Fils `json:"amount" db:"amount_fils" validate:"gt=0"`
	PaymentMethod   string     `json:"paymentMethod" db:"payment_method" validate:"required,oneof=COD PayPal"`
	PromoCode       string     `json:"promoCode,omitempty" db:"promo_code"`
	DiscountPercent int        `json:"discountPercent" db:"discount_percent" validate:"gte=0,lte=100"`
	Address         Address    `json:"address" db:"address" validate:"required"`
	Items           []LineItem `json:"items" db:"items" validate:"required,min=1,dive"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}
