package cart

// AddItemRequest is the payload for adding a product to the cart. The price
// is never part of it: the handler re-reads price and stock from the
// commerce platform.
type AddItemRequest struct {
	ProductID   int               `json:"product_id" validate:"required,min=1"`
	VariationID *int              `json:"variation_id,omitempty" validate:"omitempty,min=1"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Quantity    int               `json:"quantity" validate:"required,min=1"`
}

// UpdateItemRequest carries the new quantity for a cart row. Zero or
// negative removes the row, so the field is a pointer to distinguish an
// explicit zero from a missing value.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
