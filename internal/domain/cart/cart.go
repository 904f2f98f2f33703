package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/stylehub/storefront/internal/domain/catalog"
)

// Sentinel errors for cart operations.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrIndexOutOfRange = errors.New("cart index out of range")
	ErrNilProduct      = errors.New("product required")
)

// LineItem is one row in the cart. Its identity is the triple
// (product id, color, size); the product is a shared read-only reference
// into the catalog, never a copy.
type LineItem struct {
	Product  *catalog.Product
	Quantity int
	Color    string
	Size     string
}

// Subtotal returns effective price times quantity for this row.
func (li *LineItem) Subtotal() decimal.Decimal {
	return li.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// matches reports whether the row has the given composite identity.
func (li *LineItem) matches(productID, color, size string) bool {
	return li.Product.ID == productID && li.Color == color && li.Size == size
}

// Snapshot is a read-only view of the cart handed to collaborators.
type Snapshot struct {
	Items     []LineItem
	Total     decimal.Decimal
	ItemCount int
}

// Cart owns the line items and the two derived fields. Every mutation ends
// with a full recompute of Total and ItemCount from the item list; the
// derived fields are never adjusted incrementally, so they cannot drift.
//
// Not safe for concurrent use; the owning session serializes access.
type Cart struct {
	items     []LineItem
	total     decimal.Decimal
	itemCount int
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{total: decimal.Zero}
}

// Add merges quantity into an existing row with the same (product id, color,
// size) identity, or appends a new row at the end. Existing row order is
// preserved.
func (c *Cart) Add(p *catalog.Product, quantity int, color, size string) error {
	if p == nil {
		return ErrNilProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	merged := false
	for i := range c.items {
		if c.items[i].matches(p.ID, color, size) {
			c.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, LineItem{
			Product:  p,
			Quantity: quantity,
			Color:    color,
			Size:     size,
		})
	}

	c.recompute()
	return nil
}

// Remove deletes the row at the given position. Rows after it shift down by
// one, so callers must not hold indices across mutations.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return errors.Wrapf(ErrIndexOutOfRange, "remove %d of %d", index, len(c.items))
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	c.recompute()
	return nil
}

// SetQuantity sets the row's quantity to exactly the given value. A quantity
// of zero or less removes the row, making SetQuantity(i, 0) equivalent to
// Remove(i).
func (c *Cart) SetQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.items) {
		return errors.Wrapf(ErrIndexOutOfRange, "set quantity %d of %d", index, len(c.items))
	}
	if quantity <= 0 {
		c.items = append(c.items[:index], c.items[index+1:]...)
	} else {
		c.items[index].Quantity = quantity
	}
	c.recompute()
	return nil
}

// Clear empties the cart; both derived fields reset to zero.
func (c *Cart) Clear() {
	c.items = nil
	c.recompute()
}

// Len returns the number of rows (not the summed quantity).
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no rows.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Snapshot returns a copy of the rows plus the derived fields.
func (c *Cart) Snapshot() Snapshot {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:     items,
		Total:     c.total,
		ItemCount: c.itemCount,
	}
}

// recompute rebuilds both derived fields by folding over the item list.
func (c *Cart) recompute() {
	total := decimal.Zero
	count := 0
	for i := range c.items {
		total = total.Add(c.items[i].Subtotal())
		count += c.items[i].Quantity
	}
	c.total = total
	c.itemCount = count
}
