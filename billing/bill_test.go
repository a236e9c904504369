package billing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

type voucherFixture map[string]Voucher

func (f voucherFixture) FindByCode(code string) (*Voucher, error) {
	v, ok := f[code]
	if !ok {
		return nil, ErrInvalidVoucherCode
	}
	return &v, nil
}

func newTestBill() *Bill {
	return NewBill(dec("18"), voucherFixture{
		"WELCOME50": {ID: uuid.New(), Code: "WELCOME50", Type: DiscountFixed, Value: dec("50")},
	})
}

func addService(b *Bill, name, price string) {
	b.AddItem(CatalogItem{ID: uuid.New(), Name: name, Price: dec(price)}, KindService)
}

func testClient() Client {
	return Client{
		ID:            uuid.New(),
		Name:          "Asha",
		Phone:         "+919812345678",
		LoyaltyPoints: dec("450"),
		WalletBalance: dec("1000"),
		Packages:      []ClientPackage{{Name: "Haircut", SessionsLeft: 3}},
	}
}

func TestBill_TotalsFollowCartMutations(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")

	checkTotal(t, "grandTotal", b.Totals().GrandTotal, dec("708"))

	if err := b.UpdateQuantity(0, 1); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	checkTotal(t, "grandTotal x2", b.Totals().GrandTotal, dec("1416"))

	if err := b.RemoveItem(0); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	checkTotal(t, "grandTotal empty", b.Totals().GrandTotal, dec("0"))
}

func TestBill_SinglePaymentTracksTotal(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")

	checkTotal(t, "synced amount", b.Payments()[0].Amount, dec("708"))

	b.SetManualDiscount(ManualDiscount{Type: DiscountFixed, Value: dec("100")})
	checkTotal(t, "synced after discount", b.Payments()[0].Amount, dec("590"))
}

func TestBill_SplitPaymentStopsSyncing(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")
	b.AddPaymentMethod()
	b.SetPaymentAmount(0, dec("500"))

	addService(b, "Facial", "400")

	checkTotal(t, "manual first entry", b.Payments()[0].Amount, dec("500"))
	checkTotal(t, "manual second entry", b.Payments()[1].Amount, dec("0"))
}

func TestBill_RemovePaymentResumesSync(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")
	b.AddPaymentMethod()
	b.SetPaymentAmount(0, dec("100"))

	if err := b.RemovePayment(1); err != nil {
		t.Fatalf("RemovePayment: %v", err)
	}
	checkTotal(t, "resynced amount", b.Payments()[0].Amount, dec("708"))
}

func TestBill_ToggleRedeemPointsCapsAtBalance(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Spa", "1062")

	if err := b.ToggleRedeemPoints(); err != nil {
		t.Fatalf("ToggleRedeemPoints: %v", err)
	}
	checkTotal(t, "points", b.Redemption().Points, dec("450"))
	checkTotal(t, "grandTotal", b.Totals().GrandTotal, dec("722.16"))

	// toggling again turns it off
	if err := b.ToggleRedeemPoints(); err != nil {
		t.Fatalf("ToggleRedeemPoints off: %v", err)
	}
	checkTotal(t, "points off", b.Redemption().Points, dec("0"))
	checkTotal(t, "grandTotal restored", b.Totals().GrandTotal, dec("1253.16"))
}

func TestBill_ToggleRedeemPointsCapsAtDiscountedSubtotal(t *testing.T) {
	b := newTestBill()
	client := testClient()
	client.LoyaltyPoints = dec("5000")
	b.SelectClient(client)
	addService(b, "Haircut", "600")
	b.SetManualDiscount(ManualDiscount{Type: DiscountFixed, Value: dec("100")})

	if err := b.ToggleRedeemPoints(); err != nil {
		t.Fatalf("ToggleRedeemPoints: %v", err)
	}
	// capped at subtotal minus discounts, not the full balance
	checkTotal(t, "points", b.Redemption().Points, dec("500"))
	checkTotal(t, "taxableBase", b.Totals().TaxableBase, dec("0"))
}

func TestBill_WalletCapAccountsForPointsAlreadyRedeemed(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")

	if err := b.SetPointsRedemption(dec("400")); err != nil {
		t.Fatalf("SetPointsRedemption: %v", err)
	}
	if err := b.ToggleRedeemWallet(); err != nil {
		t.Fatalf("ToggleRedeemWallet: %v", err)
	}
	// 600 - 0 - 400 leaves 200 of wallet headroom
	checkTotal(t, "wallet", b.Redemption().Wallet, dec("200"))
	checkTotal(t, "taxableBase", b.Totals().TaxableBase, dec("0"))
}

func TestBill_SetRedemptionRejectsOverCap(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")

	if err := b.SetPointsRedemption(dec("451")); err != ErrInvalidRedemptionAmount {
		t.Errorf("over-balance points err = %v, want ErrInvalidRedemptionAmount", err)
	}
	if err := b.SetWalletRedemption(dec("601")); err != ErrInvalidRedemptionAmount {
		t.Errorf("over-subtotal wallet err = %v, want ErrInvalidRedemptionAmount", err)
	}
	if err := b.SetPointsRedemption(dec("-1")); err != ErrInvalidRedemptionAmount {
		t.Errorf("negative points err = %v, want ErrInvalidRedemptionAmount", err)
	}
}

func TestBill_RedemptionWithoutClient(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")

	if err := b.ToggleRedeemPoints(); err != ErrNoClientSelected {
		t.Errorf("err = %v, want ErrNoClientSelected", err)
	}
}

func TestBill_RedemptionReclampedWhenCartShrinks(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")
	addService(b, "Facial", "400")

	if err := b.SetPointsRedemption(dec("450")); err != nil {
		t.Fatalf("SetPointsRedemption: %v", err)
	}
	if err := b.RemoveItem(0); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	// cap falls to the remaining 400 subtotal
	checkTotal(t, "reclamped points", b.Redemption().Points, dec("400"))
	if b.Totals().TaxableBase.IsNegative() {
		t.Errorf("taxableBase went negative: %s", b.Totals().TaxableBase)
	}
}

func TestBill_ApplyPromotionTogglesOnRepeat(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")
	promo := Promotion{ID: uuid.New(), Name: "Monsoon", Type: DiscountPercentage, Value: dec("10")}

	b.ApplyPromotion(promo)
	checkTotal(t, "discountTotal", b.Totals().DiscountTotal, dec("60"))

	b.ApplyPromotion(promo)
	if b.Discounts().Promotion != nil {
		t.Error("promotion still active after re-applying")
	}
	checkTotal(t, "discountTotal cleared", b.Totals().DiscountTotal, dec("0"))
}

func TestBill_ApplyVoucherCode(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")

	if err := b.ApplyVoucherCode("WELCOME50"); err != nil {
		t.Fatalf("ApplyVoucherCode: %v", err)
	}
	checkTotal(t, "discountTotal", b.Totals().DiscountTotal, dec("50"))

	if err := b.ApplyVoucherCode("NOPE"); err != ErrInvalidVoucherCode {
		t.Errorf("err = %v, want ErrInvalidVoucherCode", err)
	}
	// the failed lookup must not disturb the applied voucher
	checkTotal(t, "discountTotal kept", b.Totals().DiscountTotal, dec("50"))
}

func TestBill_CheckoutRequiresClient(t *testing.T) {
	b := newTestBill()
	addService(b, "Haircut", "600")

	if _, err := b.Checkout(nil); err != ErrNoClientSelected {
		t.Errorf("err = %v, want ErrNoClientSelected", err)
	}
}

func TestBill_CheckoutRequiresItems(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())

	if _, err := b.Checkout(nil); err != ErrEmptyCart {
		t.Errorf("err = %v, want ErrEmptyCart", err)
	}
}

func TestBill_CheckoutRequiresExactPayment(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")
	b.AddPaymentMethod()
	b.SetPaymentAmount(0, dec("500"))
	b.SetPaymentAmount(1, dec("200"))

	_, err := b.Checkout(nil)
	var mismatch *PaymentMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *PaymentMismatchError", err)
	}
	checkTotal(t, "remaining", mismatch.Difference(), dec("8"))
	if b.State() != StateIdle {
		t.Errorf("state = %s after failed checkout, want idle", b.State())
	}
}

func TestBill_CheckoutSuccess(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")

	var persisted *Invoice
	inv, err := b.Checkout(func(i *Invoice) error {
		persisted = i
		return nil
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if inv != persisted {
		t.Error("persist callback received a different invoice")
	}
	checkTotal(t, "invoice grandTotal", inv.Totals.GrandTotal, dec("708"))
	if inv.LoyaltyEarned != 7 {
		t.Errorf("LoyaltyEarned = %d, want 7", inv.LoyaltyEarned)
	}
	if len(inv.Payments) != 1 || !inv.Payments[0].Amount.Equal(dec("708")) {
		t.Errorf("payments = %+v, want single 708 entry", inv.Payments)
	}
	if inv.Number == "" {
		t.Error("empty invoice number")
	}
	if b.State() != StateIdle {
		t.Errorf("state = %s after checkout, want idle", b.State())
	}
}

func TestBill_CheckoutPersistFailureLeavesBillIntact(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")

	boom := errors.New("db down")
	if _, err := b.Checkout(func(*Invoice) error { return boom }); err != boom {
		t.Fatalf("err = %v, want persist error", err)
	}
	if b.State() != StateIdle {
		t.Errorf("state = %s, want idle", b.State())
	}
	checkTotal(t, "grandTotal preserved", b.Totals().GrandTotal, dec("708"))
	if b.Client() == nil {
		t.Error("client cleared by failed checkout")
	}
}

func TestBill_CheckoutRefusedWhileInFlight(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")

	_, err := b.Checkout(func(*Invoice) error {
		if _, again := b.Checkout(nil); again != ErrCheckoutInProgress {
			t.Errorf("nested checkout err = %v, want ErrCheckoutInProgress", again)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
}

func TestBill_InvoiceIsImmuneToLaterMutations(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")

	staffID := uuid.New()
	b.AssignStaff(0, staffID)
	b.SetManualDiscount(ManualDiscount{Type: DiscountFixed, Value: dec("100")})

	inv, err := b.Checkout(nil)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	b.UpdateQuantity(0, 5)
	b.SetManualDiscount(ManualDiscount{Type: DiscountFixed, Value: dec("999")})
	*b.Lines()[0].AssignedStaffID = uuid.New()

	if inv.Lines[0].Quantity != 1 {
		t.Errorf("invoice line quantity = %d, want 1", inv.Lines[0].Quantity)
	}
	if *inv.Lines[0].AssignedStaffID != staffID {
		t.Error("invoice staff assignment changed after checkout")
	}
	checkTotal(t, "invoice discount", inv.Discounts.Manual.Value, dec("100"))
	checkTotal(t, "invoice grandTotal", inv.Totals.GrandTotal, dec("590"))
}

func TestBill_InvoiceNumbersAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		n := nextInvoiceNumber()
		if seen[n] {
			t.Fatalf("duplicate invoice number %s", n)
		}
		seen[n] = true
	}
}

func TestBill_ResetClearsEverything(t *testing.T) {
	b := newTestBill()
	b.SelectClient(testClient())
	addService(b, "Haircut", "600")
	b.SetManualDiscount(ManualDiscount{Type: DiscountFixed, Value: dec("100")})
	b.ToggleRedeemPoints()
	b.AddPaymentMethod()

	b.ResetBill()

	if b.Client() != nil {
		t.Error("client survived reset")
	}
	if len(b.Lines()) != 0 {
		t.Error("cart survived reset")
	}
	if b.Discounts().Manual != nil {
		t.Error("manual discount survived reset")
	}
	checkTotal(t, "points", b.Redemption().Points, dec("0"))
	if len(b.Payments()) != 1 {
		t.Errorf("payment entries = %d, want 1", len(b.Payments()))
	}
	checkTotal(t, "grandTotal", b.Totals().GrandTotal, dec("0"))
	if b.State() != StateIdle {
		t.Errorf("state = %s, want idle", b.State())
	}
}
