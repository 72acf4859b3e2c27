package cart

import (
	cartsvc "github.com/aurelhart/storefront-backend/internal/cart"
)

// CartItem is the wire shape of one cart row.
type CartItem struct {
	ID          string            `json:"id"`
	ProductID   int               `json:"product_id"`
	VariationID *int              `json:"variation_id,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Name        string            `json:"name,omitempty"`
	Image       string            `json:"image,omitempty"`
	Slug        string            `json:"slug,omitempty"`
	UnitPrice   string            `json:"unit_price"`
	Quantity    int               `json:"quantity"`
	MaxQuantity *int              `json:"max_quantity,omitempty"`
	Subtotal    string            `json:"subtotal"`
}

// CartView is the wire shape of the whole cart, totals included.
type CartView struct {
	Items     []CartItem `json:"items"`
	Total     string     `json:"total"`
	ItemCount int        `json:"item_count"`
	Open      bool       `json:"open"`
}

func newCartView(view cartsvc.View) CartView {
	items := make([]CartItem, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, CartItem{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Attributes:  item.Attributes,
			Name:        item.Name,
			Image:       item.Image,
			Slug:        item.Slug,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			MaxQuantity: item.MaxQuantity,
			Subtotal:    item.Subtotal().StringFixed(2),
		})
	}

	return CartView{
		Items:     items,
		Total:     view.Total.StringFixed(2),
		ItemCount: view.ItemCount,
		Open:      view.Open,
	}
}
