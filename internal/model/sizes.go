package model

import "strconv"

// Взрослая размерная сетка.
var adultSizes = map[string]struct{}{
	"S": {}, "M": {}, "L": {}, "XL": {}, "2XL": {},
}

// IsAdultSize проверяет размер по взрослой сетке.
func IsAdultSize(size string) bool {
	_, ok := adultSizes[size]
	return ok
}

// IsKidsSize проверяет размер по детской числовой сетке (16-28).
// Сетки взаимоисключающие: детский размер не бывает буквенным.
func IsKidsSize(size string) bool {
	n, err := strconv.Atoi(size)
	if err != nil {
		return false
	}
	return n >= 16 && n <= 28
}
