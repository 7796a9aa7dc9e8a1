// Package money wraps shopspring/decimal with the rounding rules used for
// every stored or returned amount.
package money

import (
	"github.com/shopspring/decimal"
)

const Places = 2

var hundred = decimal.NewFromInt(100)

// Quantize rounds to two places, half to even.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Places)
}

// Percent returns pct percent of base, quantized.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return Quantize(base.Mul(pct).Div(hundred))
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds all values and quantizes the result.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Quantize(total)
}

// OrZero unwraps a nullable amount.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Ratio returns num/den as a percentage quantized to two places, or zero
// when den is zero.
func Ratio(num, den int64) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return Quantize(decimal.NewFromInt(num).Mul(hundred).Div(decimal.NewFromInt(den)))
}
