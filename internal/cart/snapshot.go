package cart

// SnapshotVersion is written with every snapshot. A stored snapshot carrying
// any other version rehydrates as an empty cart.
const SnapshotVersion = 1

// Snapshot is the durable serialized form of the cart. The open flag is
// deliberately absent: visibility is transient UI state.
type Snapshot struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Snapshot captures the current items for persistence.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{
		Version: SnapshotVersion,
		Items:   c.Items(),
	}
}

// FromSnapshot rehydrates a cart. A nil snapshot or a version mismatch
// yields an empty cart rather than an error.
func FromSnapshot(snap *Snapshot) *Cart {
	if snap == nil || snap.Version != SnapshotVersion {
		return New()
	}
	c := New()
	for _, item := range snap.Items {
		if item.Quantity < 1 {
			continue
		}
		c.items = append(c.items, LineItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariationID: copyIntPtr(item.VariationID),
			Attributes:  copyAttributes(item.Attributes),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			MaxQuantity: copyIntPtr(item.MaxQuantity),
			Name:        item.Name,
			Image:       item.Image,
			Slug:        item.Slug,
		})
	}
	return c
}
