package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func cartWith(items ...LineItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.lines = append(c.lines, item)
	}
	return c
}

func serviceLine(price string, qty int) LineItem {
	return LineItem{
		ItemID:    uuid.New(),
		Kind:      KindService,
		Name:      "Haircut",
		UnitPrice: dec(price),
		Quantity:  qty,
	}
}

func checkTotal(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestComputeTotals_NoDiscounts(t *testing.T) {
	cart := cartWith(serviceLine("600", 1))

	totals := ComputeTotals(cart, DiscountSelection{}, Redemption{}, dec("18"))

	checkTotal(t, "subtotal", totals.Subtotal, dec("600"))
	checkTotal(t, "discountTotal", totals.DiscountTotal, decimal.Zero)
	checkTotal(t, "taxableBase", totals.TaxableBase, dec("600"))
	checkTotal(t, "tax", totals.Tax, dec("108"))
	checkTotal(t, "grandTotal", totals.GrandTotal, dec("708"))
}

func TestComputeTotals_FixedManualDiscount(t *testing.T) {
	cart := cartWith(serviceLine("600", 1))
	discounts := DiscountSelection{Manual: &ManualDiscount{Type: DiscountFixed, Value: dec("100")}}

	totals := ComputeTotals(cart, discounts, Redemption{}, dec("18"))

	checkTotal(t, "taxableBase", totals.TaxableBase, dec("500"))
	checkTotal(t, "tax", totals.Tax, dec("90"))
	checkTotal(t, "grandTotal", totals.GrandTotal, dec("590"))
}

func TestComputeTotals_PercentageManualDiscount(t *testing.T) {
	cart := cartWith(serviceLine("600", 1))
	discounts := DiscountSelection{Manual: &ManualDiscount{Type: DiscountPercentage, Value: dec("10")}}

	totals := ComputeTotals(cart, discounts, Redemption{}, dec("18"))

	checkTotal(t, "discountTotal", totals.DiscountTotal, dec("60"))
	checkTotal(t, "taxableBase", totals.TaxableBase, dec("540"))
	checkTotal(t, "tax", totals.Tax, dec("97.2"))
	checkTotal(t, "grandTotal", totals.GrandTotal, dec("637.2"))
}

func TestComputeTotals_PointsRedemption(t *testing.T) {
	cart := cartWith(serviceLine("1062", 1))

	totals := ComputeTotals(cart, DiscountSelection{}, Redemption{Points: dec("450")}, dec("18"))

	checkTotal(t, "taxableBase", totals.TaxableBase, dec("612"))
	checkTotal(t, "tax", totals.Tax, dec("110.16"))
	checkTotal(t, "grandTotal", totals.GrandTotal, dec("722.16"))
}

func TestComputeTotals_PackageRedeemedLineContributesNothing(t *testing.T) {
	pkg := serviceLine("600", 1)
	pkg.PackageRedemption = true
	normal := serviceLine("400", 1)
	normal.Name = "Facial"
	cart := cartWith(pkg, normal)

	totals := ComputeTotals(cart, DiscountSelection{}, Redemption{}, dec("18"))

	checkTotal(t, "subtotal", totals.Subtotal, dec("400"))
}

func TestComputeTotals_EmptyCart(t *testing.T) {
	totals := ComputeTotals(&Cart{}, DiscountSelection{}, Redemption{}, dec("18"))

	checkTotal(t, "subtotal", totals.Subtotal, decimal.Zero)
	checkTotal(t, "taxableBase", totals.TaxableBase, decimal.Zero)
	checkTotal(t, "tax", totals.Tax, decimal.Zero)
	checkTotal(t, "grandTotal", totals.GrandTotal, decimal.Zero)
}

func TestComputeTotals_ZeroTax(t *testing.T) {
	cart := cartWith(serviceLine("600", 1))

	totals := ComputeTotals(cart, DiscountSelection{}, Redemption{}, decimal.Zero)

	checkTotal(t, "tax", totals.Tax, decimal.Zero)
	checkTotal(t, "grandTotal", totals.GrandTotal, totals.TaxableBase)
}

func TestComputeTotals_DiscountExceedingSubtotalClampsAtZero(t *testing.T) {
	cart := cartWith(serviceLine("600", 1))
	discounts := DiscountSelection{Manual: &ManualDiscount{Type: DiscountFixed, Value: dec("1000")}}

	totals := ComputeTotals(cart, discounts, Redemption{}, dec("18"))

	// The raw discount number is not capped, only the balance is
	checkTotal(t, "discountTotal", totals.DiscountTotal, dec("1000"))
	checkTotal(t, "taxableBase", totals.TaxableBase, decimal.Zero)
	checkTotal(t, "grandTotal", totals.GrandTotal, decimal.Zero)
}

func TestComputeTotals_DiscountsAreAdditiveNotCompounded(t *testing.T) {
	cart := cartWith(serviceLine("1000", 1))
	discounts := DiscountSelection{
		Manual:    &ManualDiscount{Type: DiscountPercentage, Value: dec("10")},
		Promotion: &Promotion{ID: uuid.New(), Name: "Monsoon", Type: DiscountPercentage, Value: dec("10")},
		Voucher:   &Voucher{ID: uuid.New(), Code: "WELCOME", Type: DiscountFixed, Value: dec("50")},
	}

	totals := ComputeTotals(cart, discounts, Redemption{}, decimal.Zero)

	// 100 + 100 + 50, each percentage taken of the pre-discount subtotal
	checkTotal(t, "discountTotal", totals.DiscountTotal, dec("250"))
	checkTotal(t, "taxableBase", totals.TaxableBase, dec("750"))
}

func TestComputeTotals_RedemptionOrderDiscountsPointsWallet(t *testing.T) {
	cart := cartWith(serviceLine("500", 2))
	discounts := DiscountSelection{Manual: &ManualDiscount{Type: DiscountFixed, Value: dec("200")}}
	redemption := Redemption{Points: dec("300"), Wallet: dec("400")}

	totals := ComputeTotals(cart, discounts, redemption, dec("18"))

	// 1000 - 200 - 300 - 400 = 100
	checkTotal(t, "taxableBase", totals.TaxableBase, dec("100"))
	checkTotal(t, "tax", totals.Tax, dec("18"))
	checkTotal(t, "grandTotal", totals.GrandTotal, dec("118"))
}

func TestComputeTotals_OverRedemptionStillClampsAtZero(t *testing.T) {
	cart := cartWith(serviceLine("100", 1))
	redemption := Redemption{Points: dec("500"), Wallet: dec("500")}

	totals := ComputeTotals(cart, DiscountSelection{}, redemption, dec("18"))

	checkTotal(t, "taxableBase", totals.TaxableBase, decimal.Zero)
	checkTotal(t, "grandTotal", totals.GrandTotal, decimal.Zero)
}

func TestComputeTotals_Idempotent(t *testing.T) {
	cart := cartWith(serviceLine("600", 2), serviceLine("250", 1))
	discounts := DiscountSelection{Manual: &ManualDiscount{Type: DiscountPercentage, Value: dec("5")}}
	redemption := Redemption{Points: dec("100")}

	first := ComputeTotals(cart, discounts, redemption, dec("18"))
	second := ComputeTotals(cart, discounts, redemption, dec("18"))

	checkTotal(t, "subtotal", second.Subtotal, first.Subtotal)
	checkTotal(t, "discountTotal", second.DiscountTotal, first.DiscountTotal)
	checkTotal(t, "taxableBase", second.TaxableBase, first.TaxableBase)
	checkTotal(t, "tax", second.Tax, first.Tax)
	checkTotal(t, "grandTotal", second.GrandTotal, first.GrandTotal)
}

func TestComputeTotals_GrandTotalIsBasePlusTaxExactly(t *testing.T) {
	rates := []string{"0", "5", "12", "18", "28"}
	cart := cartWith(serviceLine("333.33", 3))

	for _, rate := range rates {
		totals := ComputeTotals(cart, DiscountSelection{}, Redemption{}, dec(rate))
		want := totals.TaxableBase.Add(percentOf(totals.TaxableBase, dec(rate)))
		if !totals.GrandTotal.Equal(want) {
			t.Errorf("rate %s: grandTotal = %s, want %s", rate, totals.GrandTotal, want)
		}
	}
}

func TestLoyaltyEarned(t *testing.T) {
	cases := []struct {
		total string
		want  int64
	}{
		{"708", 7},
		{"99.99", 0},
		{"100", 1},
		{"0", 0},
		{"1250.5", 12},
	}

	for _, tc := range cases {
		if got := LoyaltyEarned(dec(tc.total)); got != tc.want {
			t.Errorf("LoyaltyEarned(%s) = %d, want %d", tc.total, got, tc.want)
		}
	}
}
