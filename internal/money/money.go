package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Fils представляет денежную сумму в филсах (1 KD = 1000 филсов).
// Вся арифметика выполняется в целых числах, чтобы исключить
// погрешности двоичной плавающей точки.
type Fils int64

// Популярные надбавки магазина.
const (
	KD      Fils = 1000 // один динар
	HalfKD  Fils = 500  // пол-динара (500 филсов)
	Zero    Fils = 0
)

// FromKD разбирает десятичную строку вида "10", "10.5" или "10.000"
// в сумму в филсах. Допускается не более трёх знаков после точки.
func FromKD(s string) (Fils, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("пустая денежная строка")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 3 {
		return 0, fmt.Errorf("слишком много знаков после точки: %q", s)
	}
	// Дополняем дробную часть до трёх знаков: "5" -> "500"
	frac = frac + strings.Repeat("0", 3-len(frac))

	wholePart, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректная денежная строка %q: %w", s, err)
	}
	fracPart, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректная денежная строка %q: %w", s, err)
	}

	total := Fils(wholePart*1000 + fracPart)
	if neg {
		total = -total
	}
	return total, nil
}

// String форматирует сумму в виде "d.ddd" (три знака после точки).
func (f Fils) String() string {
	sign := ""
	v := int64(f)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%03d", sign, v/1000, v%1000)
}

// PercentOff возвращает размер скидки percent% от суммы.
// Деление целочисленное: 10% от 20.000 KD = 2.000 KD ровно.
func (f Fils) PercentOff(percent int) Fils {
	return f * Fils(percent) / 100
}

// IsPositive сообщает, что сумма строго больше нуля.
func (f Fils) IsPositive() bool {
	return f > 0
}

// MarshalJSON сериализует сумму как строку "d.ddd".
// Наружу суммы всегда уходят в десятичном виде, филсы - внутреннее представление.
func (f Fils) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(f.String())), nil
}

// UnmarshalJSON принимает как строку ("15.000"), так и число (15 или 15.5) -
// клиенты исторически присылали оба варианта.
func (f *Fils) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := FromKD(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
