// Package pricing вычисляет итоговую цену позиции из базовой цены товара
// и выбранных опций. Функция чистая: никаких побочных эффектов и ошибок,
// невалидные комбинации отсеиваются раньше, на этапе валидации заказа.
package pricing

import (
	"strings"

	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

// Надбавки за опции (в филсах).
const (
	SurchargeLongSleeve = money.HalfKD  // +500 филсов за длинный рукав
	SurchargePatch      = money.HalfKD  // +500 филсов за патч
	SurchargeCustomName = money.KD      // +1 KD за имя и номер
	SurchargePlayer     = money.KD      // +1 KD за Player Version
	SurchargeShorts     = 2 * money.KD  // +2 KD за шорты
	KidsBasePrice       = 8*money.KD + money.HalfKD // фиксированные 8.500 KD для детских
)

// QuoteInput - опции, выбранные покупателем при конфигурации.
type QuoteInput struct {
	BasePrice  money.Fils
	Quality    string
	Sleeve     string
	Patch      string
	CustomName string
	AddShorts  bool
	Kids       bool
}

// Quote возвращает итоговую цену одной позиции.
//
// Детские товары считаются по фиксированной базе: остальные надбавки,
// кроме имени, к ним неприменимы.
func Quote(in QuoteInput) money.Fils {
	hasName := strings.TrimSpace(in.CustomName) != ""

	if in.Kids {
		price := KidsBasePrice
		if hasName {
			price += SurchargeCustomName
		}
		return price
	}

	price := in.BasePrice
	if in.Sleeve == model.SleeveLong {
		price += SurchargeLongSleeve
	}
	if in.Patch != "" && in.Patch != model.PatchNone {
		price += SurchargePatch
	}
	if hasName {
		price += SurchargeCustomName
	}
	if in.Quality == model.QualityPlayer {
		price += SurchargePlayer
	}
	if in.AddShorts {
		price += SurchargeShorts
	}
	return price
}
