package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemKind string

const (
	KindService ItemKind = "service"
	KindProduct ItemKind = "product"
)

// CatalogItem is the slice of a service or product the cart needs. Lookups
// against the full catalog happen outside the billing core.
type CatalogItem struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// CatalogLookup resolves a SKU or barcode to a catalog item.
type CatalogLookup interface {
	FindByCode(code string) (*CatalogItem, ItemKind, error)
}

// LineItem is one entry in the cart.
type LineItem struct {
	ItemID            uuid.UUID       `json:"itemId"`
	Kind              ItemKind        `json:"kind"`
	Name              string          `json:"name"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	Quantity          int             `json:"quantity"`
	AssignedStaffID   *uuid.UUID      `json:"assignedStaffId"`
	PackageRedemption bool            `json:"isPackageRedemption"`
}

// Total is the line's contribution to the subtotal. A package redemption
// consumes a prepaid session, so it contributes nothing.
func (li LineItem) Total() decimal.Decimal {
	if li.PackageRedemption {
		return decimal.Zero
	}
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered ledger of line items for the bill in progress.
type Cart struct {
	lines []LineItem
}

// AddItem merges into an existing line with the same item and kind by
// incrementing its quantity, otherwise appends a fresh line of quantity 1.
func (c *Cart) AddItem(item CatalogItem, kind ItemKind) {
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID && c.lines[i].Kind == kind {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, LineItem{
		ItemID:    item.ID,
		Kind:      kind,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
	})
}

// ImportLines pulls externally-originated lines (a pending app order) into
// the cart, merging exactly like AddItem.
func (c *Cart) ImportLines(lines []LineItem) {
	for _, line := range lines {
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		merged := false
		for i := range c.lines {
			if c.lines[i].ItemID == line.ItemID && c.lines[i].Kind == line.Kind {
				c.lines[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			c.lines = append(c.lines, LineItem{
				ItemID:    line.ItemID,
				Kind:      line.Kind,
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  qty,
			})
		}
	}
}

// UpdateQuantity applies a delta to a line's quantity, flooring at 1.
// Dropping a line entirely goes through RemoveItem.
func (c *Cart) UpdateQuantity(index, delta int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	qty := c.lines[index].Quantity + delta
	if qty < 1 {
		qty = 1
	}
	c.lines[index].Quantity = qty
	return nil
}

func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// AssignStaff records the staff member credited for a line. The ID is a
// free-form reference into the staff directory; no existence check here.
func (c *Cart) AssignStaff(index int, staffID uuid.UUID) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	id := staffID
	c.lines[index].AssignedStaffID = &id
	return nil
}

// TogglePackageRedemption flips the prepaid-session flag. Package
// eligibility is checked by the caller before offering the toggle; the
// ledger accepts it unconditionally.
func (c *Cart) TogglePackageRedemption(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrLineOutOfRange
	}
	c.lines[index].PackageRedemption = !c.lines[index].PackageRedemption
	return nil
}

func (c *Cart) Len() int      { return len(c.lines) }
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a copy of the cart, safe to hold across later mutations.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(index int) (LineItem, error) {
	if index < 0 || index >= len(c.lines) {
		return LineItem{}, ErrLineOutOfRange
	}
	return c.lines[index], nil
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range c.lines {
		sum = sum.Add(line.Total())
	}
	return sum
}

func (c *Cart) Reset() {
	c.lines = nil
}
