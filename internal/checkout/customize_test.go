package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

func adultProduct() *model.Product {
	return &model.Product{
		ID:               "p-1",
		Name:             "Barcelona Home 23/24",
		Price:            money.Fils(10000),
		Image:            "https://cdn.example.com/barca.jpg",
		LongSleevesImage: "https://cdn.example.com/barca-ls.jpg",
		Categories:       []string{model.CategoryNewArrivals},
		League:           "La Liga",
		Patches:          []string{"Champions League"},
		ShowShorts:       true,
		ShowLongSleeves:  true,
	}
}

func kidsProduct() *model.Product {
	return &model.Product{
		ID:         "p-2",
		Name:       "Barcelona Kids 23/24",
		Price:      money.Fils(10000),
		Image:      "https://cdn.example.com/barca-kids.jpg",
		Categories: []string{model.CategoryKids},
		League:     "La Liga",
	}
}

func TestCustomize_FullOptions(t *testing.T) {
	assertions := assert.New(t)

	item, err := Customize(adultProduct(), Options{
		Size:       "M",
		Quality:    model.QualityPlayer,
		Sleeve:     model.SleeveLong,
		Patch:      "Champions League",
		CustomName: "MESSI 10",
		Instagram:  "@buyer1",
		AddShorts:  true,
	})

	assertions.NoError(err)
	// 10.000 + рукав 0.500 + патч 0.500 + имя 1.000 + Player 1.000 + шорты 2.000
	assertions.Equal(money.Fils(15000), item.Price)
	// Длинный рукав подменяет изображение
	assertions.Equal("https://cdn.example.com/barca-ls.jpg", item.Image)
	assertions.Equal("MESSI 10", item.CustomName)
}

func TestCustomize_SizeRequired(t *testing.T) {
	_, err := Customize(adultProduct(), Options{
		Quality:   model.QualityFan,
		Sleeve:    model.SleeveShort,
		Instagram: "@buyer1",
	})
	assert.Equal(t, KindInvalidOrderData, KindOf(err))
}

func TestCustomize_KidsSizeScheme(t *testing.T) {
	assertions := assert.New(t)

	// Взрослый размер на детском товаре отклоняется
	_, err := Customize(kidsProduct(), Options{Size: "M", Instagram: "@buyer1"})
	assertions.Equal(KindInvalidOrderData, KindOf(err))

	// Детский размер на взрослом товаре отклоняется
	_, err = Customize(adultProduct(), Options{
		Size: "22", Quality: model.QualityFan, Sleeve: model.SleeveShort, Instagram: "@buyer1",
	})
	assertions.Equal(KindInvalidOrderData, KindOf(err))
}

func TestCustomize_KidsForcedQualityAndPrice(t *testing.T) {
	assertions := assert.New(t)

	item, err := Customize(kidsProduct(), Options{
		Size:      "22",
		Quality:   model.QualityPlayer, // игнорируется
		Instagram: "@buyer1",
	})
	assertions.NoError(err)
	assertions.Equal(model.QualityKids, item.Quality)
	assertions.Equal(money.Fils(8500), item.Price)
}

func TestCustomize_UnavailableOptions(t *testing.T) {
	assertions := assert.New(t)

	plain := adultProduct()
	plain.ShowLongSleeves = false
	plain.ShowShorts = false
	plain.Patches = nil

	_, err := Customize(plain, Options{
		Size: "M", Quality: model.QualityFan, Sleeve: model.SleeveLong, Instagram: "@buyer1",
	})
	assertions.Equal(KindInvalidOrderData, KindOf(err))

	_, err = Customize(plain, Options{
		Size: "M", Quality: model.QualityFan, Sleeve: model.SleeveShort,
		Patch: "Champions League", Instagram: "@buyer1",
	})
	assertions.Equal(KindInvalidOrderData, KindOf(err))

	_, err = Customize(plain, Options{
		Size: "M", Quality: model.QualityFan, Sleeve: model.SleeveShort,
		AddShorts: true, Instagram: "@buyer1",
	})
	assertions.Equal(KindInvalidOrderData, KindOf(err))
}

func TestCustomize_InstagramHandle(t *testing.T) {
	assertions := assert.New(t)

	base := Options{Size: "M", Quality: model.QualityFan, Sleeve: model.SleeveShort}

	noAt := base
	noAt.Instagram = "buyer1"
	_, err := Customize(adultProduct(), noAt)
	assertions.Equal(KindInvalidOrderData, KindOf(err))

	withSpace := base
	withSpace.Instagram = "@buy er1"
	_, err = Customize(adultProduct(), withSpace)
	assertions.Equal(KindInvalidOrderData, KindOf(err))

	padded := base
	padded.Instagram = "  @buyer1  "
	item, err := Customize(adultProduct(), padded)
	assertions.NoError(err)
	assertions.Equal("@buyer1", item.Instagram)
}
