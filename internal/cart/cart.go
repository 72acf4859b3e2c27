package cart

import (
	"github.com/shopspring/decimal"
)

// Op identifies a cart mutation for change notification.
type Op string

const (
	OpAdd    Op = "add_item"
	OpRemove Op = "remove_item"
	OpUpdate Op = "update_quantity"
	OpClear  Op = "clear"
)

// Change describes a mutation applied to a cart.
type Change struct {
	Op     Op
	ItemID string
}

// Subscriber receives change notifications synchronously after each mutation.
type Subscriber func(Change)

// Cart holds the ordered line items a session intends to purchase. All
// mutations are total: inputs are clamped or treated as no-ops, never
// rejected. Cart is not safe for concurrent use; the Manager serializes
// access to each instance.
type Cart struct {
	items []LineItem
	open  bool
	subs  []Subscriber
}

func New() *Cart {
	return &Cart{}
}

// Subscribe registers a change listener. Listeners run synchronously in
// registration order after the mutation has been applied.
func (c *Cart) Subscribe(fn Subscriber) {
	if fn != nil {
		c.subs = append(c.subs, fn)
	}
}

// AddItem merges the candidate into the cart by derived identity. A matching
// row absorbs the candidate's quantity, clamped to the stock ceiling;
// otherwise a new row is appended. Adding always opens the cart. A quantity
// below one is clamped to one.
func (c *Cart) AddItem(input LineItemInput) {
	id := DeriveItemID(input.ProductID, input.VariationID, input.Attributes)

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		// Merge: refresh the stock ceiling if the candidate carries a newer
		// one, then sum and clamp. Price and display stay as captured at
		// first add.
		if input.MaxQuantity != nil {
			c.items[i].MaxQuantity = copyIntPtr(input.MaxQuantity)
		}
		c.items[i].Quantity = clampQuantity(c.items[i].Quantity+quantity, c.items[i].MaxQuantity)
		c.open = true
		c.notify(Change{Op: OpAdd, ItemID: id})
		return
	}

	c.items = append(c.items, LineItem{
		ID:          id,
		ProductID:   input.ProductID,
		VariationID: copyIntPtr(input.VariationID),
		Attributes:  copyAttributes(input.Attributes),
		UnitPrice:   input.UnitPrice,
		Quantity:    clampQuantity(quantity, input.MaxQuantity),
		MaxQuantity: copyIntPtr(input.MaxQuantity),
		Name:        input.Name,
		Image:       input.Image,
		Slug:        input.Slug,
	})
	c.open = true
	c.notify(Change{Op: OpAdd, ItemID: id})
}

// RemoveItem drops the row with the given id. Absent ids are a no-op.
func (c *Cart) RemoveItem(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.notify(Change{Op: OpRemove, ItemID: id})
			return
		}
	}
}

// UpdateQuantity sets the row's quantity, clamped to its stock ceiling. A
// quantity of zero or below removes the row. Absent ids are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = clampQuantity(quantity, c.items[i].MaxQuantity)
			c.notify(Change{Op: OpUpdate, ItemID: id})
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.items = nil
	c.notify(Change{Op: OpClear})
}

// Items returns a copy of the current rows in insertion order.
func (c *Cart) Items() []LineItem {
	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	for i := range items {
		items[i].VariationID = copyIntPtr(items[i].VariationID)
		items[i].MaxQuantity = copyIntPtr(items[i].MaxQuantity)
		items[i].Attributes = copyAttributes(items[i].Attributes)
	}
	return items
}

// Item returns the row with the given id, if present.
func (c *Cart) Item(id string) (LineItem, bool) {
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// Total recomputes the cart total from the current rows on every call. It is
// a pure function of the items and never cached, so it cannot drift.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount sums the quantities across all rows.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Open reports the transient UI visibility flag. It is excluded from
// persistence.
func (c *Cart) Open() bool {
	return c.open
}

func (c *Cart) SetOpen(open bool) {
	c.open = open
}

func (c *Cart) notify(change Change) {
	for _, fn := range c.subs {
		fn(change)
	}
}
