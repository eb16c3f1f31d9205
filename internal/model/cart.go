package model

import "fbpitch/internal/money"

// Варианты качества джерси.
const (
	QualityFan    = "Fan Version"
	QualityPlayer = "Player Version"
	QualityKids   = "Kids"
)

// Длина рукава.
const (
	SleeveShort = "Short Sleeve"
	SleeveLong  = "Long Sleeve"
)

// PatchNone - явное отсутствие патча.
const PatchNone = "N/A"

// LineItem - одна сконфигурированная позиция корзины или заказа.
// Это снимок товара на момент конфигурации: последующие правки
// каталога на позицию не влияют.
type LineItem struct {
	ProductID  string     `json:"productId" db:"product_id" validate:"required"`
	Name       string     `json:"name" db:"name" validate:"required"`
	Image      string     `json:"image,omitempty" db:"image"`
	Size       string     `json:"size" db:"size" validate:"required"`
	Quality    string     `json:"quality" db:"quality" validate:"required,oneof='Fan Version' 'Player Version' Kids"`
	Sleeve     string     `json:"sleeve,omitempty" db:"sleeve" validate:"omitempty,oneof='Short Sleeve' 'Long Sleeve'"`
	Patch      string     `json:"patch" db:"patch"`
	CustomName string     `json:"customName,omitempty" db:"custom_name"`
	Instagram  string     `json:"instagram" db:"instagram" validate:"required,startswith=@,excludesall= "`
	AddShorts  bool       `json:"addShorts" db:"add_shorts"`
	Price      money.Fils `json:"price" db:"price_fils" validate:"gte=0"`
}

// Cart - упорядоченная последовательность позиций одного покупателя.
type Cart struct {
	CustomerID string     `json:"customerId"`
	Items      []LineItem `json:"items"`
}

// Subtotal возвращает сумму позиций корзины до скидки.
func (c *Cart) Subtotal() money.Fils {
	var total money.Fils
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}
