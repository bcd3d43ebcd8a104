// Package pricing holds the arithmetic of checkout: discount resolution,
// shipping fees, order totals and display-currency conversion. Amounts are
// float64 at rest and decimal.Decimal while being computed.
package pricing

import "github.com/shopspring/decimal"

func Dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// clamp bounds d to [0, max].
func clamp(d, max decimal.Decimal) decimal.Decimal {
	d = nonNegative(d)
	if d.GreaterThan(max) {
		return max
	}
	return d
}
