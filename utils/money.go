package utils

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Report consumers expect plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ToMinor converts a major-unit amount (e.g. 90.50 TL) into minor units (9050 kuruş),
// truncating anything below one minor unit.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(2).Truncate(0).IntPart()
}

// ToMajor is applied only when a value leaves the service boundary.
func ToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
