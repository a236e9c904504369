package billing

import "github.com/shopspring/decimal"

// Totals is the derived breakdown of a bill. It is recomputed from its
// inputs on every change and never stored independently of them.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountTotal  decimal.Decimal `json:"discountTotal"`
	PointsRedeemed decimal.Decimal `json:"pointsRedeemed"`
	WalletRedeemed decimal.Decimal `json:"walletRedeemed"`
	TaxableBase    decimal.Decimal `json:"taxableBase"`
	Tax            decimal.Decimal `json:"tax"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
}

// ComputeTotals turns the cart, discount selection, redemption amounts and
// tax rate into a totals breakdown. Pure: same inputs, same outputs.
//
// The order is fixed and load-bearing: subtotal, then the additive discount
// sum, then points, then wallet, clamping at zero after each subtraction.
// Redemption caps are enforced where the amounts are set, not here; the
// clamps still guarantee the bill never goes negative if an over-cap value
// slips through.
func ComputeTotals(cart *Cart, discounts DiscountSelection, redemption Redemption, taxPercent decimal.Decimal) Totals {
	subtotal := cart.Subtotal()
	discountTotal := discounts.Total(subtotal)

	afterDiscount := clampZero(subtotal.Sub(discountTotal))
	afterPoints := clampZero(afterDiscount.Sub(redemption.Points))
	taxableBase := clampZero(afterPoints.Sub(redemption.Wallet))

	tax := percentOf(taxableBase, taxPercent)

	return Totals{
		Subtotal:       subtotal,
		DiscountTotal:  discountTotal,
		PointsRedeemed: redemption.Points,
		WalletRedeemed: redemption.Wallet,
		TaxableBase:    taxableBase,
		Tax:            tax,
		GrandTotal:     taxableBase.Add(tax),
	}
}
