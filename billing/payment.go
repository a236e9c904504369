package billing

import "github.com/shopspring/decimal"

type PaymentMethod string

const (
	PayCash   PaymentMethod = "cash"
	PayCard   PaymentMethod = "card"
	PayOnline PaymentMethod = "online"
	PayWallet PaymentMethod = "wallet"
)

// PaymentEntry is one (method, amount) pair of a split payment.
type PaymentEntry struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// PaymentSplit keeps the payment entries for the bill in progress. The sum
// of amounts must equal the grand total exactly before checkout is allowed.
type PaymentSplit struct {
	entries []PaymentEntry
}

// NewPaymentSplit starts with a single cash entry. A bill always carries at
// least one payment entry.
func NewPaymentSplit() *PaymentSplit {
	return &PaymentSplit{entries: []PaymentEntry{{Method: PayCash, Amount: decimal.Zero}}}
}

// AddMethod appends a new entry. Adding a second entry ends single-entry
// auto-sync; from then on amounts are entered manually.
func (p *PaymentSplit) AddMethod() {
	p.entries = append(p.entries, PaymentEntry{Method: PayOnline, Amount: decimal.Zero})
}

func (p *PaymentSplit) SetMethod(index int, method PaymentMethod) error {
	if index < 0 || index >= len(p.entries) {
		return ErrLineOutOfRange
	}
	p.entries[index].Method = method
	return nil
}

func (p *PaymentSplit) SetAmount(index int, amount decimal.Decimal) error {
	if index < 0 || index >= len(p.entries) {
		return ErrLineOutOfRange
	}
	p.entries[index].Amount = amount
	return nil
}

// Remove deletes an entry, refusing to delete the last remaining one.
func (p *PaymentSplit) Remove(index int) error {
	if index < 0 || index >= len(p.entries) {
		return ErrLineOutOfRange
	}
	if len(p.entries) == 1 {
		return ErrLastPaymentEntry
	}
	p.entries = append(p.entries[:index], p.entries[index+1:]...)
	return nil
}

func (p *PaymentSplit) Len() int { return len(p.entries) }

// Entries returns a copy, safe to snapshot.
func (p *PaymentSplit) Entries() []PaymentEntry {
	out := make([]PaymentEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *PaymentSplit) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range p.entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// SyncToTotal keeps the single-payment case frictionless: while exactly one
// entry exists, its amount follows the grand total. With two or more
// entries this is a no-op.
func (p *PaymentSplit) SyncToTotal(grandTotal decimal.Decimal) {
	if len(p.entries) == 1 {
		p.entries[0].Amount = grandTotal
	}
}

// Reconcile checks the exact-sum gate. Exact decimal equality: a mismatch
// of a single paisa blocks checkout.
func (p *PaymentSplit) Reconcile(grandTotal decimal.Decimal) error {
	sum := p.Sum()
	if !sum.Equal(grandTotal) {
		return &PaymentMismatchError{GrandTotal: grandTotal, PaymentSum: sum}
	}
	return nil
}

func (p *PaymentSplit) Reset() {
	p.entries = []PaymentEntry{{Method: PayCash, Amount: decimal.Zero}}
}
