// Package checkout turns a session's cart into an order on the commerce
// platform. The cart is only cleared once the platform confirms the order;
// any failure leaves the cart intact for retry.
package checkout

import (
	"context"
	"fmt"

	"github.com/aurelhart/storefront-backend/internal/cart"
	"github.com/aurelhart/storefront-backend/internal/commerce"
	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type cartLines interface {
	CheckoutLines(ctx context.Context, key string) ([]cart.CheckoutLine, error)
	Clear(ctx context.Context, key string) (cart.View, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, req commerce.OrderRequest) (*commerce.OrderConfirmation, error)
}

// Result is the storefront's view of a confirmed order.
type Result struct {
	OrderID int
	Status  string
	Total   decimal.Decimal
}

// Service defines the checkout operation.
type Service interface {
	Submit(ctx context.Context, sessionID string, customerID *int) (*Result, error)
}

type service struct {
	carts  cartLines
	orders orderCreator
	logg   *logger.Logger
}

// NewService builds the checkout service.
func NewService(carts cartLines, orders orderCreator, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart manager required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order client required")
	}
	return &service{carts: carts, orders: orders, logg: logg}, nil
}

// Submit places an order from the session's cart rows and clears the cart on
// confirmation.
func (s *service) Submit(ctx context.Context, sessionID string, customerID *int) (*Result, error) {
	lines, err := s.carts.CheckoutLines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderLines := make([]commerce.OrderLine, 0, len(lines))
	for _, line := range lines {
		orderLines = append(orderLines, commerce.OrderLine{
			ProductID:   line.ProductID,
			VariationID: line.VariationID,
			Quantity:    line.Quantity,
		})
	}

	conf, err := s.orders.CreateOrder(ctx, commerce.OrderRequest{
		CustomerID: customerID,
		SessionID:  sessionID,
		LineItems:  orderLines,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order exists; a stale cart is recoverable, a lost order is not.
		if s.logg != nil {
			s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "checkout.cart_clear_failed", err)
		}
	}

	return &Result{
		OrderID: conf.OrderID,
		Status:  conf.Status,
		Total:   conf.Total,
	}, nil
}
