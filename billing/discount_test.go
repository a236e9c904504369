package billing

import (
	"testing"

	"github.com/google/uuid"
)

func TestDiscountSelection_Total(t *testing.T) {
	sel := DiscountSelection{
		Manual:    &ManualDiscount{Type: DiscountFixed, Value: dec("100")},
		Promotion: &Promotion{ID: uuid.New(), Name: "Monsoon", Type: DiscountPercentage, Value: dec("10")},
	}

	checkTotal(t, "total", sel.Total(dec("600")), dec("160"))
	checkTotal(t, "empty total", DiscountSelection{}.Total(dec("600")), dec("0"))
}

func TestDiscountSelection_Breakdown(t *testing.T) {
	sel := DiscountSelection{
		Manual:    &ManualDiscount{Type: DiscountFixed, Value: dec("100")},
		Promotion: &Promotion{ID: uuid.New(), Name: "Monsoon", Type: DiscountPercentage, Value: dec("10")},
		Voucher:   &Voucher{ID: uuid.New(), Code: "WELCOME50", Type: DiscountFixed, Value: dec("50")},
	}

	got := sel.Breakdown(dec("600"))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	checkTotal(t, "manual amount", got[0].Amount, dec("100"))
	checkTotal(t, "promotion amount", got[1].Amount, dec("60"))
	if got[1].Label != "Monsoon" {
		t.Errorf("promotion label = %q", got[1].Label)
	}
	checkTotal(t, "voucher amount", got[2].Amount, dec("50"))
	if got[2].Source != "voucher" || got[2].Label != "WELCOME50" {
		t.Errorf("voucher entry = %+v", got[2])
	}
}

func TestMaxPointsRedeemable(t *testing.T) {
	bal := ClientBalances{LoyaltyPoints: dec("450"), WalletBalance: dec("1000")}

	// balance is the binding cap
	checkTotal(t, "cap by balance", MaxPointsRedeemable(bal, dec("1062"), dec("0")), dec("450"))
	// discounted subtotal is the binding cap
	checkTotal(t, "cap by balance due", MaxPointsRedeemable(bal, dec("500"), dec("200")), dec("300"))
	// never negative even when discounts swallow the subtotal
	checkTotal(t, "cap floor", MaxPointsRedeemable(bal, dec("100"), dec("500")), dec("0"))
}

func TestMaxWalletRedeemable(t *testing.T) {
	bal := ClientBalances{LoyaltyPoints: dec("450"), WalletBalance: dec("1000")}

	// wallet comes after points in the deduction order
	checkTotal(t, "cap after points", MaxWalletRedeemable(bal, dec("600"), dec("0"), dec("450")), dec("150"))
	checkTotal(t, "cap by balance", MaxWalletRedeemable(bal, dec("5000"), dec("0"), dec("0")), dec("1000"))
	checkTotal(t, "cap floor", MaxWalletRedeemable(bal, dec("400"), dec("100"), dec("300")), dec("0"))
}
