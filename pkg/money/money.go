package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every monetary value.
// All amounts are NUMERIC(12,2) in storage.
const Scale = 2

// Parse converts a decimal string into a monetary value. It rejects values
// with more than two fractional digits instead of silently rounding.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !HasValidScale(d) {
		return decimal.Zero, fmt.Errorf("amount %q has more than %d fractional digits", s, Scale)
	}
	return d, nil
}

// MustParse is Parse for test fixtures and constants; it panics on bad input.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// HasValidScale reports whether d fits in two fractional digits.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// String serializes a monetary value with exactly two fractional digits,
// rounding half-even.
func String(d decimal.Decimal) string {
	return d.StringFixedBank(Scale)
}
