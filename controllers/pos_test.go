// controllers/pos_test.go
package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"salonpos-backend/billing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func packageInvoice(quantity, sessionsLeft int) *billing.Invoice {
	return &billing.Invoice{
		Client: billing.Client{
			ID:       uuid.New(),
			Name:     "Asha",
			Packages: []billing.ClientPackage{{Name: "Haircut", SessionsLeft: sessionsLeft}},
		},
		Lines: []billing.LineItem{{
			ItemID:            uuid.New(),
			Kind:              billing.KindService,
			Name:              "Haircut",
			UnitPrice:         decimal.NewFromInt(600),
			Quantity:          quantity,
			PackageRedemption: true,
		}},
	}
}

func TestValidatePackageSessions_EnoughSessions(t *testing.T) {
	if err := validatePackageSessions(packageInvoice(2, 3)); err != nil {
		t.Errorf("validatePackageSessions: %v", err)
	}
}

func TestValidatePackageSessions_QuantityExceedsSessions(t *testing.T) {
	err := validatePackageSessions(packageInvoice(4, 3))
	if !errors.Is(err, errInsufficientPackageSessions) {
		t.Errorf("err = %v, want errInsufficientPackageSessions", err)
	}
}

func TestValidatePackageSessions_NoMatchingPackage(t *testing.T) {
	inv := packageInvoice(1, 3)
	inv.Client.Packages = nil

	if err := validatePackageSessions(inv); !errors.Is(err, errInsufficientPackageSessions) {
		t.Errorf("err = %v, want errInsufficientPackageSessions", err)
	}
}

func TestValidatePackageSessions_SharedPoolAcrossLines(t *testing.T) {
	inv := packageInvoice(2, 3)
	inv.Lines = append(inv.Lines, billing.LineItem{
		ItemID:            uuid.New(),
		Kind:              billing.KindService,
		Name:              "Haircut",
		UnitPrice:         decimal.NewFromInt(600),
		Quantity:          2,
		PackageRedemption: true,
	})

	// two lines drawing 2+2 from a 3-session package
	if err := validatePackageSessions(inv); !errors.Is(err, errInsufficientPackageSessions) {
		t.Errorf("err = %v, want errInsufficientPackageSessions", err)
	}
}

func TestValidatePackageSessions_IgnoresPaidLines(t *testing.T) {
	inv := packageInvoice(1, 1)
	inv.Lines = append(inv.Lines, billing.LineItem{
		ItemID:    uuid.New(),
		Kind:      billing.KindService,
		Name:      "Haircut",
		UnitPrice: decimal.NewFromInt(600),
		Quantity:  5,
	})

	if err := validatePackageSessions(inv); err != nil {
		t.Errorf("paid lines should not draw on the package: %v", err)
	}
}

type emptyVouchers struct{}

func (emptyVouchers) FindByCode(string) (*billing.Voucher, error) {
	return nil, billing.ErrInvalidVoucherCode
}

func importLines() []billing.LineItem {
	return []billing.LineItem{{
		ItemID:    uuid.New(),
		Kind:      billing.KindProduct,
		Name:      "Hair Oil",
		UnitPrice: decimal.NewFromInt(350),
		Quantity:  2,
	}}
}

func TestImportOrderIntoBill_FailedClaimLeavesCartUntouched(t *testing.T) {
	b := billing.NewBill(decimal.NewFromInt(18), emptyVouchers{})
	boom := errors.New("order already claimed")

	if err := importOrderIntoBill(b, importLines(), func() error { return boom }); err != boom {
		t.Fatalf("err = %v, want claim error", err)
	}
	if len(b.Lines()) != 0 {
		t.Errorf("cart has %d lines after failed claim, want 0", len(b.Lines()))
	}
}

func TestImportOrderIntoBill_MergesAfterClaim(t *testing.T) {
	b := billing.NewBill(decimal.NewFromInt(18), emptyVouchers{})
	claimed := false

	err := importOrderIntoBill(b, importLines(), func() error {
		if len(b.Lines()) != 0 {
			t.Error("cart mutated before the claim")
		}
		claimed = true
		return nil
	})
	if err != nil {
		t.Fatalf("importOrderIntoBill: %v", err)
	}
	if !claimed {
		t.Fatal("claim never ran")
	}
	if len(b.Lines()) != 1 || b.Lines()[0].Quantity != 2 {
		t.Errorf("lines = %+v, want the imported line", b.Lines())
	}
}

func TestRespondBillingError_InsufficientSessionsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondBillingError(c, errInsufficientPackageSessions)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestRespondBillingError_MismatchCarriesRemaining(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondBillingError(c, &billing.PaymentMismatchError{
		GrandTotal: decimal.NewFromInt(708),
		PaymentSum: decimal.NewFromInt(700),
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}
