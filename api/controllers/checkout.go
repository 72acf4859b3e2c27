package controllers

import (
	"net/http"

	"github.com/aurelhart/storefront-backend/api/middleware"
	"github.com/aurelhart/storefront-backend/api/responses"
	checkoutsvc "github.com/aurelhart/storefront-backend/internal/checkout"
	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
)

// CheckoutResponse is the wire shape of a confirmed order.
type CheckoutResponse struct {
	OrderID int    `json:"order_id"`
	Status  string `json:"status"`
	Total   string `json:"total"`
}

// Checkout submits the session's cart as an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		result, err := svc.Submit(r.Context(), sessionID, middleware.CustomerIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, CheckoutResponse{
			OrderID: result.OrderID,
			Status:  result.Status,
			Total:   result.Total.StringFixed(2),
		})
	}
}
