package cart

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one row in the cart: a purchasable product or product variant
// plus a quantity. Its ID is derived, never supplied by callers, so two
// additions describing the same purchasable variant collapse into one row.
type LineItem struct {
	ID          string            `json:"id"`
	ProductID   int               `json:"product_id"`
	VariationID *int              `json:"variation_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Quantity    int               `json:"quantity"`
	MaxQuantity *int              `json:"max_quantity,omitempty"`

	// Display metadata, carried for rendering only.
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	Slug  string `json:"slug,omitempty"`
}

// LineItemInput mirrors LineItem minus the derived ID.
type LineItemInput struct {
	ProductID   int
	VariationID *int
	Attributes  map[string]string
	UnitPrice   decimal.Decimal
	Quantity    int
	MaxQuantity *int
	Name        string
	Image       string
	Slug        string
}

// Subtotal returns unit price times quantity for this row.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DeriveItemID composes the identity string for a product/variant/attribute
// combination. Attribute pairs are sorted by key so the result does not
// depend on map iteration order.
func DeriveItemID(productID int, variationID *int, attributes map[string]string) string {
	parts := []string{strconv.Itoa(productID)}
	if variationID != nil {
		parts = append(parts, strconv.Itoa(*variationID))
	}
	if len(attributes) > 0 {
		pairs := make([]string, 0, len(attributes))
		for key, value := range attributes {
			pairs = append(pairs, key+":"+value)
		}
		sort.Strings(pairs)
		parts = append(parts, pairs...)
	}
	return strings.Join(parts, "-")
}

func clampQuantity(quantity int, max *int) int {
	if max != nil && quantity > *max {
		return *max
	}
	return quantity
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}

func copyAttributes(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
