package billing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percentOf returns percent% of base.
func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

// clampZero floors negative amounts at zero. Totals arithmetic clamps every
// intermediate subtraction so a bill can never go negative.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// LoyaltyEarned is the number of loyalty points earned on a bill: one point
// per full 100 of grand total.
func LoyaltyEarned(grandTotal decimal.Decimal) int64 {
	return grandTotal.Div(hundred).Floor().IntPart()
}
