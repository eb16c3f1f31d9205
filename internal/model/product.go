package model

import (
	"time"

	"github.com/lib/pq"

	"fbpitch/internal/money"
)

// Категории каталога.
const (
	CategoryNewArrivals  = "NEW ARRIVALS"
	CategorySpecialKits  = "SPECIAL KITS"
	CategoryRetro        = "RETRO"
	CategoryNationalTeam = "NATIONAL TEAM"
	CategoryKids         = "KITS FOR KIDS"
	CategoryShorts       = "SHORTS"
)

// Product - товар каталога (футболка).
// Ссылки на изображения нормализованы до обычных URL-строк на границе
// хранилища; пустая строка означает отсутствие варианта.
type Product struct {
	ID              string         `json:"id" db:"id"`
	Name            string         `json:"name" db:"name" validate:"required"`
	Price           money.Fils     `json:"price" db:"price_fils" validate:"gte=0"`
	Image           string         `json:"image" db:"image" validate:"required"`
	ShortsImage     string         `json:"shortsImage,omitempty" db:"shorts_image"`
	LongSleevesImage string        `json:"longSleevesImage,omitempty" db:"long_sleeves_image"`
	Categories      pq.StringArray `json:"categories" db:"categories" validate:"required,min=1"`
	League          string         `json:"league" db:"league" validate:"required"`
	Patches         pq.StringArray `json:"patches" db:"patches"`
	ShowShorts      bool           `json:"showShorts" db:"show_shorts"`
	ShowLongSleeves bool           `json:"showLongSleeves" db:"show_long_sleeves"`
	Tags            pq.StringArray `json:"tags,omitempty" db:"tags"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// IsKids сообщает, относится ли товар к детской линейке
// (для неё действует фиксированная цена).
func (p *Product) IsKids() bool {
	for _, c := range p.Categories {
		if c == CategoryKids {
			return true
		}
	}
	return false
}
