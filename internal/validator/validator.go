package validator

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Кувейтский мобильный номер: 8 цифр, первая 5, 6 или 9.
var kwPhoneRe = regexp.MustCompile(`^(5|6|9)\d{7}$`)

var (
	validate *validator.Validate
	once     sync.Once
)

// getInstance возвращает синглтон-экземпляр валидатора.
func getInstance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		// Кастомное правило для телефона доставки.
		_ = validate.RegisterValidation("kwphone", func(fl validator.FieldLevel) bool {
			return kwPhoneRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct выполняет валидацию по тегам структуры.
func ValidateStruct(s interface{}) error {
	return getInstance().Struct(s)
}

// IsKuwaitPhone проверяет строку по формату местного мобильного номера.
func IsKuwaitPhone(phone string) bool {
	return kwPhoneRe.MatchString(phone)
}
