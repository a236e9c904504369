package billing

import (
	"errors"
	"testing"
)

func TestPaymentSplit_StartsWithSingleCashEntry(t *testing.T) {
	p := NewPaymentSplit()

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	if p.Entries()[0].Method != PayCash {
		t.Errorf("method = %s, want cash", p.Entries()[0].Method)
	}
}

func TestPaymentSplit_SyncToTotalOnlyWithOneEntry(t *testing.T) {
	p := NewPaymentSplit()

	p.SyncToTotal(dec("708"))
	checkTotal(t, "single entry amount", p.Entries()[0].Amount, dec("708"))

	p.AddMethod()
	p.SetAmount(0, dec("500"))
	p.SyncToTotal(dec("708"))
	checkTotal(t, "first entry after split", p.Entries()[0].Amount, dec("500"))
	checkTotal(t, "second entry after split", p.Entries()[1].Amount, dec("0"))
}

func TestPaymentSplit_SyncResumesWhenBackToOneEntry(t *testing.T) {
	p := NewPaymentSplit()
	p.AddMethod()
	p.SetAmount(0, dec("500"))
	p.SetAmount(1, dec("100"))

	if err := p.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	p.SyncToTotal(dec("708"))
	checkTotal(t, "amount after remove", p.Entries()[0].Amount, dec("708"))
}

func TestPaymentSplit_RemoveLastEntryRefused(t *testing.T) {
	p := NewPaymentSplit()

	if err := p.Remove(0); err != ErrLastPaymentEntry {
		t.Errorf("err = %v, want ErrLastPaymentEntry", err)
	}
	if p.Len() != 1 {
		t.Errorf("Len() = %d, want 1", p.Len())
	}
}

func TestPaymentSplit_ReconcileExactMatch(t *testing.T) {
	p := NewPaymentSplit()
	p.AddMethod()
	p.SetMethod(1, PayCard)
	p.SetAmount(0, dec("500"))
	p.SetAmount(1, dec("208"))

	if err := p.Reconcile(dec("708")); err != nil {
		t.Errorf("Reconcile: %v, want nil", err)
	}
}

func TestPaymentSplit_ReconcileMismatchReportsRemaining(t *testing.T) {
	p := NewPaymentSplit()
	p.AddMethod()
	p.SetAmount(0, dec("500"))
	p.SetAmount(1, dec("200"))

	err := p.Reconcile(dec("708"))
	var mismatch *PaymentMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *PaymentMismatchError", err)
	}
	checkTotal(t, "difference", mismatch.Difference(), dec("8"))
}

func TestPaymentSplit_ReconcileOverpaymentIsAlsoMismatch(t *testing.T) {
	p := NewPaymentSplit()
	p.SetAmount(0, dec("710"))

	err := p.Reconcile(dec("708"))
	var mismatch *PaymentMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *PaymentMismatchError", err)
	}
	checkTotal(t, "difference", mismatch.Difference(), dec("-2"))
}

func TestPaymentSplit_ReconcileNearMissBlocks(t *testing.T) {
	p := NewPaymentSplit()
	p.SetAmount(0, dec("707.99"))

	if err := p.Reconcile(dec("708")); err == nil {
		t.Error("Reconcile accepted a one-paisa shortfall")
	}
}

func TestPaymentSplit_SetOutOfRange(t *testing.T) {
	p := NewPaymentSplit()

	if err := p.SetMethod(3, PayCard); err != ErrLineOutOfRange {
		t.Errorf("SetMethod err = %v, want ErrLineOutOfRange", err)
	}
	if err := p.SetAmount(-1, dec("1")); err != ErrLineOutOfRange {
		t.Errorf("SetAmount err = %v, want ErrLineOutOfRange", err)
	}
}

func TestPaymentSplit_Reset(t *testing.T) {
	p := NewPaymentSplit()
	p.AddMethod()
	p.SetAmount(0, dec("500"))

	p.Reset()

	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	checkTotal(t, "amount", p.Entries()[0].Amount, dec("0"))
	if p.Entries()[0].Method != PayCash {
		t.Errorf("method = %s, want cash", p.Entries()[0].Method)
	}
}
