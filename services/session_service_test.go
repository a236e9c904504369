// services/session_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"salonpos-backend/billing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type noVouchers struct{}

func (noVouchers) FindByCode(string) (*billing.Voucher, error) {
	return nil, billing.ErrInvalidVoucherCode
}

func newSession() *BillSession {
	return &BillSession{
		bill:     billing.NewBill(decimal.NewFromInt(18), noVouchers{}),
		lastUsed: time.Now(),
	}
}

func TestBillSession_DoSerializesMutations(t *testing.T) {
	s := newSession()
	item := billing.CatalogItem{ID: uuid.New(), Name: "Haircut", Price: decimal.NewFromInt(600)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(b *billing.Bill) error {
				b.AddItem(item, billing.KindService)
				return nil
			})
		}()
	}
	wg.Wait()

	s.Do(func(b *billing.Bill) error {
		lines := b.Lines()
		if len(lines) != 1 {
			t.Errorf("lines = %d, want 1 merged line", len(lines))
		} else if lines[0].Quantity != 50 {
			t.Errorf("quantity = %d, want 50", lines[0].Quantity)
		}
		return nil
	})
}

func TestSessionStore_SweepEvictsIdleSessions(t *testing.T) {
	st := NewSessionStore(nil)

	idleUser := uuid.New()
	activeUser := uuid.New()
	stale := newSession()
	stale.lastUsed = time.Now().Add(-3 * time.Hour)
	st.sessions[idleUser] = stale
	st.sessions[activeUser] = newSession()

	st.sweep(2 * time.Hour)

	if _, ok := st.sessions[idleUser]; ok {
		t.Error("idle session survived sweep")
	}
	if _, ok := st.sessions[activeUser]; !ok {
		t.Error("active session evicted by sweep")
	}
}

func TestSessionStore_DoRefreshesLastUsed(t *testing.T) {
	st := NewSessionStore(nil)
	userID := uuid.New()
	s := newSession()
	s.lastUsed = time.Now().Add(-3 * time.Hour)
	st.sessions[userID] = s

	s.Do(func(*billing.Bill) error { return nil })
	st.sweep(2 * time.Hour)

	if _, ok := st.sessions[userID]; !ok {
		t.Error("session evicted despite recent use")
	}
}

func TestDefaultTaxPercent(t *testing.T) {
	t.Setenv("DEFAULT_TAX_PERCENT", "")
	if got := defaultTaxPercent(); !got.Equal(decimal.NewFromInt(18)) {
		t.Errorf("default = %s, want 18", got)
	}

	t.Setenv("DEFAULT_TAX_PERCENT", "12.5")
	if got := defaultTaxPercent(); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("from env = %s, want 12.5", got)
	}

	t.Setenv("DEFAULT_TAX_PERCENT", "not-a-number")
	if got := defaultTaxPercent(); !got.Equal(decimal.NewFromInt(18)) {
		t.Errorf("bad env = %s, want 18", got)
	}
}
