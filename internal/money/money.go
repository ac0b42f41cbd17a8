// Package money provides fixed-point currency helpers built on shopspring/decimal.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for presented amounts.
const Places = 2

// Round rounds an amount to cents, half away from zero.
// For the non-negative amounts produced by pricing this is round-half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders an amount with exactly two fractional digits, e.g. "1520.88".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// MustParse parses a decimal literal and panics on malformed input.
// Only use it for compile-time constants such as the built-in catalog.
func MustParse(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// PowInt raises base to a non-negative integer exponent using exponentiation
// by squaring. The result is exact; no intermediate rounding is applied.
func PowInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if b.LessThan(a) {
		return b
	}
	return a
}
