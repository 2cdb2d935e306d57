// Package rounding provides the exact-decimal rounding primitives used by the
// order builder. All price/size arithmetic in this module goes through
// shopspring/decimal; binary floating point would shift digit counts and break
// the amount-rounding cascade.
package rounding

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundDown floors d at the given number of decimal places.
func RoundDown(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundFloor(places)
}

// RoundUp ceils d at the given number of decimal places.
func RoundUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundCeil(places)
}

// RoundNormal rounds d to the given number of decimal places, half away from
// zero.
func RoundNormal(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// DecimalPlaces returns the number of fractional digits in the minimal
// decimal representation of d. Trailing zeros left over from earlier rounding
// are not counted: a value stored as 10.1200 reports 2.
func DecimalPlaces(d decimal.Decimal) int32 {
	// Decimal.String trims trailing zeros, so the string form is already the
	// minimal representation.
	s := d.String()
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return int32(len(s) - i - 1)
}
