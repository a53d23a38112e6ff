package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/dustin/go-humanize"
)

// Round rounds v to the given number of decimal places.
func Round(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// Decimals returns the display precision for a value in unit. Pounds are
// whole; other units get 3 places below 1, 2 below 10 and 1 otherwise.
func Decimals(v float64, unit domain.UnitType) int {
	if unit == domain.UnitPound {
		return 0
	}

	// thresholds compare against the value rounded to 6 places
	switch v = Round(normalize(v), 6); {
	case v < 1:
		return 3
	case v < 10:
		return 2
	default:
		return 1
	}
}

// Format renders v with unit-appropriate precision and thousands grouping,
// e.g. "12,345" for pounds or "1,234.5" for cases.
func Format(v float64, unit domain.UnitType) string {
	v = normalize(v)
	decimals := Decimals(v, unit)
	if decimals == 0 {
		return humanize.Comma(int64(math.Round(v)))
	}

	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}

	return humanize.Comma(whole) + "." + fracPart
}

// FormatWithUnit appends the unit label, pluralized unless the value is
// exactly one, e.g. "2.50 pallets" or "1 lb".
func FormatWithUnit(v float64, unit domain.UnitType) string {
	s := Format(v, unit)
	plural := s != "1" && s != "1.00" && s != "1.0"
	return s + " " + unit.Label(plural)
}
