package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// ManualDiscount is an ad-hoc discount entered by staff at the counter.
type ManualDiscount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Promotion is a catalog promotion applied to the whole bill.
type Promotion struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Type  DiscountType    `json:"discountType"`
	Value decimal.Decimal `json:"discountValue"`
}

// Voucher is a code-attached discount from the voucher catalog.
type Voucher struct {
	ID    uuid.UUID       `json:"id"`
	Code  string          `json:"code"`
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// VoucherLookup resolves a voucher code against the external catalog.
// A miss must return ErrInvalidVoucherCode.
type VoucherLookup interface {
	FindByCode(code string) (*Voucher, error)
}

// DiscountSelection holds at most one discount of each source. All active
// sources combine additively against the pre-discount subtotal.
type DiscountSelection struct {
	Manual    *ManualDiscount `json:"manual"`
	Promotion *Promotion      `json:"promotion"`
	Voucher   *Voucher        `json:"voucher"`
}

// contribution converts one discount into money. Percentages are always
// taken of the pre-discount subtotal, never of a running balance.
func contribution(t DiscountType, value, subtotal decimal.Decimal) decimal.Decimal {
	if t == DiscountPercentage {
		return percentOf(subtotal, value)
	}
	return value
}

// Total sums the independent contributions of manual, promotion and
// voucher discounts. The sum may exceed the subtotal; the calculator clamps
// later, not here.
func (d DiscountSelection) Total(subtotal decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if d.Manual != nil {
		total = total.Add(contribution(d.Manual.Type, d.Manual.Value, subtotal))
	}
	if d.Promotion != nil {
		total = total.Add(contribution(d.Promotion.Type, d.Promotion.Value, subtotal))
	}
	if d.Voucher != nil {
		total = total.Add(contribution(d.Voucher.Type, d.Voucher.Value, subtotal))
	}
	return total
}

// AppliedDiscount is one discount source resolved to the amount it
// contributed, for invoice records and receipts.
type AppliedDiscount struct {
	Source string          `json:"source"` // manual, promotion, voucher
	Type   DiscountType    `json:"type"`
	Value  decimal.Decimal `json:"value"`
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
}

// Breakdown lists the active discounts with their contributions against
// the given subtotal.
func (d DiscountSelection) Breakdown(subtotal decimal.Decimal) []AppliedDiscount {
	var out []AppliedDiscount
	if d.Manual != nil {
		out = append(out, AppliedDiscount{
			Source: "manual",
			Type:   d.Manual.Type,
			Value:  d.Manual.Value,
			Amount: contribution(d.Manual.Type, d.Manual.Value, subtotal),
		})
	}
	if d.Promotion != nil {
		out = append(out, AppliedDiscount{
			Source: "promotion",
			Type:   d.Promotion.Type,
			Value:  d.Promotion.Value,
			Amount: contribution(d.Promotion.Type, d.Promotion.Value, subtotal),
			Label:  d.Promotion.Name,
		})
	}
	if d.Voucher != nil {
		out = append(out, AppliedDiscount{
			Source: "voucher",
			Type:   d.Voucher.Type,
			Value:  d.Voucher.Value,
			Amount: contribution(d.Voucher.Type, d.Voucher.Value, subtotal),
			Label:  d.Voucher.Code,
		})
	}
	return out
}

// ClientBalances is what the redemption caps need from the client directory.
type ClientBalances struct {
	LoyaltyPoints decimal.Decimal
	WalletBalance decimal.Decimal
}

// Redemption carries the amounts of loyalty points and wallet balance being
// applied to the bill. Application order is fixed: discounts, then points,
// then wallet.
type Redemption struct {
	Points decimal.Decimal `json:"pointsRedeemed"`
	Wallet decimal.Decimal `json:"walletRedeemed"`
}

// MaxPointsRedeemable caps points redemption at the smaller of the client's
// balance and what is left of the bill after discounts.
func MaxPointsRedeemable(bal ClientBalances, subtotal, discountTotal decimal.Decimal) decimal.Decimal {
	return decimal.Min(bal.LoyaltyPoints, clampZero(subtotal.Sub(discountTotal)))
}

// MaxWalletRedeemable caps wallet redemption after points have been taken.
func MaxWalletRedeemable(bal ClientBalances, subtotal, discountTotal, pointsRedeemed decimal.Decimal) decimal.Decimal {
	return decimal.Min(bal.WalletBalance, clampZero(subtotal.Sub(discountTotal).Sub(pointsRedeemed)))
}
