package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderLine is one purchased row submitted to the commerce platform. Only
// identity and quantity are sent; the platform reprices on its side.
type OrderLine struct {
	ProductID   int  `json:"product_id"`
	VariationID *int `json:"variation_id,omitempty"`
	Quantity    int  `json:"quantity"`
}

// OrderRequest is the checkout payload.
type OrderRequest struct {
	CustomerID *int        `json:"customer_id,omitempty"`
	SessionID  string      `json:"-"`
	LineItems  []OrderLine `json:"line_items"`
}

// OrderConfirmation is the platform's acknowledgement of a placed order.
type OrderConfirmation struct {
	OrderID int
	Status  string
	Total   decimal.Decimal
}

// CreateOrder submits the order and returns the platform's confirmation.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderConfirmation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if len(req.LineItems) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line item")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal order request")
	}

	start := time.Now()
	body, err := c.do(ctx, http.MethodPost, "orders", payload)
	c.metrics.ObserveCommerceLatency("create_order", time.Since(start))
	if err != nil {
		return nil, err
	}

	var apiResp struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
		Total  string `json:"total"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}

	total, err := decimal.NewFromString(strings.TrimSpace(apiResp.Total))
	if err != nil {
		total = decimal.Zero
	}

	return &OrderConfirmation{
		OrderID: apiResp.ID,
		Status:  apiResp.Status,
		Total:   total,
	}, nil
}
