package checkout

import (
	"strings"

	"fbpitch/internal/model"
	"fbpitch/internal/pricing"
)

// Options - выбор покупателя при конфигурации товара.
type Options struct {
	Size       string `json:"size"`
	Quality    string `json:"quality"`
	Sleeve     string `json:"sleeve"`
	Patch      string `json:"patch"`
	CustomName string `json:"customName"`
	Instagram  string `json:"instagram"`
	AddShorts  bool   `json:"addShorts"`
}

// Customize проверяет опции против карточки товара и собирает позицию
// корзины с ценой, посчитанной на сервере. Клиентской цене не доверяем.
func Customize(product *model.Product, opts Options) (model.LineItem, error) {
	kids := product.IsKids()

	if opts.Size == "" {
		return model.LineItem{}, newError(KindInvalidOrderData, "Please select a size")
	}
	// Размерные сетки взаимоисключающие.
	if kids && !model.IsKidsSize(opts.Size) {
		return model.LineItem{}, newError(KindInvalidOrderData, "Please select a valid kids size (16-28)")
	}
	if !kids && !model.IsAdultSize(opts.Size) {
		return model.LineItem{}, newError(KindInvalidOrderData, "Please select a valid size")
	}

	quality := opts.Quality
	if kids {
		// Детская линейка - единый фиксированный уровень.
		quality = model.QualityKids
	} else if quality != model.QualityFan && quality != model.QualityPlayer {
		return model.LineItem{}, newError(KindInvalidOrderData, "Please select a quality")
	}

	sleeve := opts.Sleeve
	if !kids {
		if sleeve == "" {
			return model.LineItem{}, newError(KindInvalidOrderData, "Please select a sleeve length")
		}
		if sleeve != model.SleeveShort && sleeve != model.SleeveLong {
			return model.LineItem{}, newError(KindInvalidOrderData, "Unknown sleeve length")
		}
		if sleeve == model.SleeveLong && !product.ShowLongSleeves {
			return model.LineItem{}, newError(KindInvalidOrderData, "Long sleeves are not available for this product")
		}
	}

	patch := opts.Patch
	if patch == "" {
		patch = model.PatchNone
	}
	if patch != model.PatchNone && !containsString(product.Patches, patch) {
		return model.LineItem{}, newError(KindInvalidOrderData, "Selected patch is not available for this product")
	}

	if opts.AddShorts && !product.ShowShorts {
		return model.LineItem{}, newError(KindInvalidOrderData, "Shorts are not available for this product")
	}

	instagram := strings.TrimSpace(opts.Instagram)
	if !strings.HasPrefix(instagram, "@") || strings.ContainsAny(instagram, " \t") {
		return model.LineItem{}, newError(KindInvalidOrderData, "Please enter a valid Instagram handle starting with @")
	}

	price := pricing.Quote(pricing.QuoteInput{
		BasePrice:  product.Price,
		Quality:    quality,
		Sleeve:     sleeve,
		Patch:      patch,
		CustomName: opts.CustomName,
		AddShorts:  opts.AddShorts,
		Kids:       kids,
	})

	image := product.Image
	if sleeve == model.SleeveLong && product.LongSleevesImage != "" {
		image = product.LongSleevesImage
	}

	return model.LineItem{
		ProductID:  product.ID,
		Name:       product.Name,
		Image:      image,
		Size:       opts.Size,
		Quality:    quality,
		Sleeve:     sleeve,
		Patch:      patch,
		CustomName: strings.TrimSpace(opts.CustomName),
		Instagram:  instagram,
		AddShorts:  opts.AddShorts,
		Price:      price,
	}, nil
}

func containsString(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
