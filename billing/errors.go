package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation failures surfaced by the billing core. All of these are
// recoverable user-facing states, never fatal.
var (
	ErrNoClientSelected        = errors.New("no client selected for this bill")
	ErrEmptyCart               = errors.New("cart has no line items")
	ErrInvalidVoucherCode      = errors.New("voucher code not found")
	ErrInvalidRedemptionAmount = errors.New("redemption amount exceeds the permitted cap")
	ErrLineOutOfRange          = errors.New("line item index out of range")
	ErrLastPaymentEntry        = errors.New("at least one payment entry must remain")
	ErrCheckoutInProgress      = errors.New("a checkout is already in progress")
)

// PaymentMismatchError is returned when the payment entries do not sum to
// the grand total exactly. Difference is grandTotal minus the payment sum,
// so a positive value is the amount still owed.
type PaymentMismatchError struct {
	GrandTotal decimal.Decimal
	PaymentSum decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	diff := e.Difference()
	if diff.IsPositive() {
		return fmt.Sprintf("payment total %s does not match bill total %s (remaining %s)",
			e.PaymentSum.StringFixed(2), e.GrandTotal.StringFixed(2), diff.StringFixed(2))
	}
	return fmt.Sprintf("payment total %s does not match bill total %s (excess %s)",
		e.PaymentSum.StringFixed(2), e.GrandTotal.StringFixed(2), diff.Neg().StringFixed(2))
}

func (e *PaymentMismatchError) Difference() decimal.Decimal {
	return e.GrandTotal.Sub(e.PaymentSum)
}
