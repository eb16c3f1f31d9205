// Package generator создает случайные карточки товаров для наполнения
// каталога в dev-окружении.
package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

var clubs = []string{
	"Real Madrid", "Barcelona", "Liverpool", "Arsenal", "Milan",
	"Inter", "Bayern Munich", "PSG", "Al-Arabi", "Kuwait SC",
}

var leagues = []string{
	"La Liga", "Premier League", "Serie A", "Bundesliga",
	"Ligue 1", "Kuwait Premier League",
}

var seasons = []string{"22/23", "23/24", "24/25", "Retro 98", "Retro 02"}

var kitTypes = []string{"Home", "Away", "Third", "GK"}

var patchPool = []string{"Champions League", "League Patch", "World Cup", model.PatchNone}

// NewProduct создает и возвращает одну полностью случайную карточку товара.
func NewProduct() model.Product {
	club := gofakeit.RandomString(clubs)
	kit := gofakeit.RandomString(kitTypes)
	season := gofakeit.RandomString(seasons)
	name := fmt.Sprintf("%s %s %s", club, kit, season)

	categories := []string{gofakeit.RandomString([]string{
		model.CategoryNewArrivals, model.CategoryRetro,
		model.CategoryNationalTeam, model.CategorySpecialKits,
	})}
	// Примерно каждый пятый товар - детский.
	if gofakeit.Number(0, 4) == 0 {
		categories = []string{model.CategoryKids}
	}

	var patches []string
	for _, patch := range patchPool {
		if patch != model.PatchNone && gofakeit.Bool() {
			patches = append(patches, patch)
		}
	}

	slug := uuid.New().String()
	product := model.Product{
		ID:              slug,
		Name:            name,
		Price:           money.Fils(int64(gofakeit.Number(6, 18)) * 1000), // 6.000 - 18.000 KD
		Image:           fmt.Sprintf("https://cdn.fbpitch.com/kits/%s.jpg", slug),
		Categories:      categories,
		League:          gofakeit.RandomString(leagues),
		Patches:         patches,
		ShowShorts:      gofakeit.Bool(),
		ShowLongSleeves: gofakeit.Bool(),
	}
	if product.ShowShorts {
		product.ShortsImage = fmt.Sprintf("https://cdn.fbpitch.com/kits/%s-shorts.jpg", slug)
	}
	if product.ShowLongSleeves {
		product.LongSleevesImage = fmt.Sprintf("https://cdn.fbpitch.com/kits/%s-ls.jpg", slug)
	}
	return product
}
