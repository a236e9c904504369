package billing

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is the snapshot of the customer a bill is being raised for.
type Client struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	LoyaltyPoints decimal.Decimal `json:"loyaltyPoints"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	Packages      []ClientPackage `json:"packages"`
}

// ClientPackage is a prepaid bundle of sessions for a named service.
type ClientPackage struct {
	Name         string `json:"name"`
	SessionsLeft int    `json:"sessionsLeft"`
}

// Balances adapts the client to the redemption cap helpers.
func (c *Client) Balances() ClientBalances {
	return ClientBalances{LoyaltyPoints: c.LoyaltyPoints, WalletBalance: c.WalletBalance}
}

// HasPackageFor reports whether the client holds an active package matching
// a service name. Callers use this to gate the package-redemption toggle.
func (c *Client) HasPackageFor(serviceName string) bool {
	for _, p := range c.Packages {
		if p.Name == serviceName && p.SessionsLeft > 0 {
			return true
		}
	}
	return false
}

type BillState string

const (
	StateIdle        BillState = "idle"
	StateCheckingOut BillState = "checking_out"
)

// Invoice is the terminal record of a checkout: a deep snapshot of the bill
// at the moment it succeeded, immutable thereafter.
type Invoice struct {
	Number        string            `json:"invoiceNumber"`
	Timestamp     time.Time         `json:"timestamp"`
	Client        Client            `json:"client"`
	Lines         []LineItem        `json:"lineItems"`
	Totals        Totals            `json:"totals"`
	Payments      []PaymentEntry    `json:"payments"`
	Discounts     DiscountSelection `json:"discountsApplied"`
	TaxPercent    decimal.Decimal   `json:"taxPercent"`
	LoyaltyEarned int64             `json:"loyaltyEarned"`
}

// Bill is the in-progress transaction: cart, discount and redemption
// selections, payment split, and the running totals derived from them.
// Bill itself is not goroutine-safe; the session layer serializes access.
type Bill struct {
	client     *Client
	cart       Cart
	discounts  DiscountSelection
	redemption Redemption
	payments   *PaymentSplit
	taxPercent decimal.Decimal
	totals     Totals
	state      BillState

	vouchers VoucherLookup
}

func NewBill(taxPercent decimal.Decimal, vouchers VoucherLookup) *Bill {
	b := &Bill{
		payments:   NewPaymentSplit(),
		taxPercent: taxPercent,
		state:      StateIdle,
		vouchers:   vouchers,
	}
	b.recompute()
	return b
}

// recompute refreshes the derived totals after any mutation. Stored
// redemption amounts are re-clamped to the current caps first: a cart or
// discount change that shrinks the bill must not leave a stale over-cap
// redemption behind. The single-entry payment keeps tracking the total.
func (b *Bill) recompute() {
	subtotal := b.cart.Subtotal()
	discountTotal := b.discounts.Total(subtotal)

	if b.client != nil {
		bal := b.client.Balances()
		b.redemption.Points = decimal.Min(b.redemption.Points,
			MaxPointsRedeemable(bal, subtotal, discountTotal))
		b.redemption.Wallet = decimal.Min(b.redemption.Wallet,
			MaxWalletRedeemable(bal, subtotal, discountTotal, b.redemption.Points))
	} else {
		b.redemption = Redemption{}
	}

	b.totals = ComputeTotals(&b.cart, b.discounts, b.redemption, b.taxPercent)
	b.payments.SyncToTotal(b.totals.GrandTotal)
}

func (b *Bill) Totals() Totals               { return b.totals }
func (b *Bill) State() BillState             { return b.state }
func (b *Bill) Client() *Client              { return b.client }
func (b *Bill) Lines() []LineItem            { return b.cart.Lines() }
func (b *Bill) Line(i int) (LineItem, error) { return b.cart.Line(i) }
func (b *Bill) Discounts() DiscountSelection { return b.discounts }
func (b *Bill) Redemption() Redemption       { return b.redemption }
func (b *Bill) Payments() []PaymentEntry     { return b.payments.Entries() }
func (b *Bill) TaxPercent() decimal.Decimal  { return b.taxPercent }

func (b *Bill) SelectClient(client Client) {
	c := client
	b.client = &c
	b.recompute()
}

// Cart ledger operations. Every mutation recomputes totals synchronously,
// so checkout validation always reads the latest state.

func (b *Bill) AddItem(item CatalogItem, kind ItemKind) {
	b.cart.AddItem(item, kind)
	b.recompute()
}

func (b *Bill) ImportPendingOrder(lines []LineItem) {
	b.cart.ImportLines(lines)
	b.recompute()
}

func (b *Bill) UpdateQuantity(index, delta int) error {
	if err := b.cart.UpdateQuantity(index, delta); err != nil {
		return err
	}
	b.recompute()
	return nil
}

func (b *Bill) RemoveItem(index int) error {
	if err := b.cart.RemoveItem(index); err != nil {
		return err
	}
	b.recompute()
	return nil
}

func (b *Bill) AssignStaff(index int, staffID uuid.UUID) error {
	if err := b.cart.AssignStaff(index, staffID); err != nil {
		return err
	}
	b.recompute()
	return nil
}

func (b *Bill) TogglePackageRedemption(index int) error {
	if err := b.cart.TogglePackageRedemption(index); err != nil {
		return err
	}
	b.recompute()
	return nil
}

// Discount selection.

func (b *Bill) SetManualDiscount(d ManualDiscount) {
	b.discounts.Manual = &d
	b.recompute()
}

func (b *Bill) ClearManualDiscount() {
	b.discounts.Manual = nil
	b.recompute()
}

// ApplyPromotion toggles the single active promotion: selecting the one
// already active clears it.
func (b *Bill) ApplyPromotion(p Promotion) {
	if b.discounts.Promotion != nil && b.discounts.Promotion.ID == p.ID {
		b.discounts.Promotion = nil
	} else {
		b.discounts.Promotion = &p
	}
	b.recompute()
}

func (b *Bill) ClearPromotion() {
	b.discounts.Promotion = nil
	b.recompute()
}

// ApplyVoucherCode looks the code up in the voucher catalog. A failed
// lookup leaves the discount state untouched.
func (b *Bill) ApplyVoucherCode(code string) error {
	v, err := b.vouchers.FindByCode(code)
	if err != nil {
		return err
	}
	b.discounts.Voucher = v
	b.recompute()
	return nil
}

func (b *Bill) ClearVoucher() {
	b.discounts.Voucher = nil
	b.recompute()
}

// Redemption selection. SetPointsRedemption and SetWalletRedemption accept
// any amount up to the cap; the toggles are all-or-nothing wrappers.

func (b *Bill) SetPointsRedemption(amount decimal.Decimal) error {
	if b.client == nil {
		return ErrNoClientSelected
	}
	subtotal := b.totals.Subtotal
	limit := MaxPointsRedeemable(b.client.Balances(), subtotal, b.totals.DiscountTotal)
	if amount.IsNegative() || amount.GreaterThan(limit) {
		return ErrInvalidRedemptionAmount
	}
	b.redemption.Points = amount
	b.recompute()
	return nil
}

func (b *Bill) SetWalletRedemption(amount decimal.Decimal) error {
	if b.client == nil {
		return ErrNoClientSelected
	}
	limit := MaxWalletRedeemable(b.client.Balances(), b.totals.Subtotal,
		b.totals.DiscountTotal, b.redemption.Points)
	if amount.IsNegative() || amount.GreaterThan(limit) {
		return ErrInvalidRedemptionAmount
	}
	b.redemption.Wallet = amount
	b.recompute()
	return nil
}

func (b *Bill) ToggleRedeemPoints() error {
	if b.client == nil {
		return ErrNoClientSelected
	}
	if b.redemption.Points.IsPositive() {
		return b.SetPointsRedemption(decimal.Zero)
	}
	limit := MaxPointsRedeemable(b.client.Balances(), b.totals.Subtotal, b.totals.DiscountTotal)
	return b.SetPointsRedemption(limit)
}

func (b *Bill) ToggleRedeemWallet() error {
	if b.client == nil {
		return ErrNoClientSelected
	}
	if b.redemption.Wallet.IsPositive() {
		return b.SetWalletRedemption(decimal.Zero)
	}
	limit := MaxWalletRedeemable(b.client.Balances(), b.totals.Subtotal,
		b.totals.DiscountTotal, b.redemption.Points)
	return b.SetWalletRedemption(limit)
}

// Payment split operations.

func (b *Bill) AddPaymentMethod() {
	b.payments.AddMethod()
}

func (b *Bill) SetPaymentMethod(index int, method PaymentMethod) error {
	return b.payments.SetMethod(index, method)
}

func (b *Bill) SetPaymentAmount(index int, amount decimal.Decimal) error {
	return b.payments.SetAmount(index, amount)
}

func (b *Bill) RemovePayment(index int) error {
	if err := b.payments.Remove(index); err != nil {
		return err
	}
	// Dropping back to a single entry resumes auto-sync.
	b.payments.SyncToTotal(b.totals.GrandTotal)
	return nil
}

// Checkout validates the bill and, if it passes, builds the invoice
// snapshot and hands it to persist. A persist failure rejects the checkout
// with the bill state untouched. While a checkout is in flight further
// attempts are refused, so a double submit cannot bill the same cart twice.
func (b *Bill) Checkout(persist func(*Invoice) error) (*Invoice, error) {
	if b.state == StateCheckingOut {
		return nil, ErrCheckoutInProgress
	}
	if b.client == nil {
		return nil, ErrNoClientSelected
	}
	if b.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := b.payments.Reconcile(b.totals.GrandTotal); err != nil {
		return nil, err
	}

	b.state = StateCheckingOut
	defer func() { b.state = StateIdle }()

	inv := b.snapshot()
	if persist != nil {
		if err := persist(inv); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// snapshot deep-copies the bill into an invoice. The copies share nothing
// mutable with the live bill, so later cart edits cannot reach into an
// issued invoice.
func (b *Bill) snapshot() *Invoice {
	client := *b.client
	client.Packages = append([]ClientPackage(nil), b.client.Packages...)

	lines := b.cart.Lines()
	for i := range lines {
		if lines[i].AssignedStaffID != nil {
			id := *lines[i].AssignedStaffID
			lines[i].AssignedStaffID = &id
		}
	}

	discounts := DiscountSelection{}
	if b.discounts.Manual != nil {
		m := *b.discounts.Manual
		discounts.Manual = &m
	}
	if b.discounts.Promotion != nil {
		p := *b.discounts.Promotion
		discounts.Promotion = &p
	}
	if b.discounts.Voucher != nil {
		v := *b.discounts.Voucher
		discounts.Voucher = &v
	}

	return &Invoice{
		Number:        nextInvoiceNumber(),
		Timestamp:     time.Now(),
		Client:        client,
		Lines:         lines,
		Totals:        b.totals,
		Payments:      b.payments.Entries(),
		Discounts:     discounts,
		TaxPercent:    b.taxPercent,
		LoyaltyEarned: LoyaltyEarned(b.totals.GrandTotal),
	}
}

// ResetBill clears everything for the next transaction.
func (b *Bill) ResetBill() {
	b.client = nil
	b.cart.Reset()
	b.discounts = DiscountSelection{}
	b.redemption = Redemption{}
	b.payments.Reset()
	b.state = StateIdle
	b.recompute()
}

var invoiceSeq uint64

// nextInvoiceNumber yields INV-YYYYMMDD-<seq>-<rand>. The process-wide
// counter keeps rapid sequential checkouts from colliding; the random
// suffix guards across restarts. The unique index on the invoice table is
// the final backstop.
func nextInvoiceNumber() string {
	seq := atomic.AddUint64(&invoiceSeq, 1)
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes for invoice number")
	}
	suffix := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	return fmt.Sprintf("INV-%s-%04d-%s", time.Now().Format("20060102"), seq, suffix)
}
