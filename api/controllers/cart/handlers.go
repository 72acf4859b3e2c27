package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aurelhart/storefront-backend/api/middleware"
	"github.com/aurelhart/storefront-backend/api/responses"
	"github.com/aurelhart/storefront-backend/api/validators"
	cartsvc "github.com/aurelhart/storefront-backend/internal/cart"
	"github.com/aurelhart/storefront-backend/internal/commerce"
	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
)

// Service is the cart surface the handlers depend on.
type Service interface {
	Fetch(ctx context.Context, key string) (cartsvc.View, error)
	AddItem(ctx context.Context, key string, input cartsvc.LineItemInput) (cartsvc.View, error)
	UpdateQuantity(ctx context.Context, key, itemID string, quantity int) (cartsvc.View, error)
	RemoveItem(ctx context.Context, key, itemID string) (cartsvc.View, error)
	Clear(ctx context.Context, key string) (cartsvc.View, error)
}

// ProductFetcher reads the current product state from the commerce platform.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID int, variationID *int) (*commerce.ProductSnapshot, error)
}

// Fetch returns the session's cart.
func Fetch(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Fetch(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(view))
	}
}

// AddItem re-reads price and stock from the commerce platform, then merges
// the row into the session's cart.
func AddItem(svc Service, products ProductFetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, err := products.GetProduct(r.Context(), payload.ProductID, payload.VariationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !snap.Purchasable {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product is not purchasable"))
			return
		}

		view, err := svc.AddItem(r.Context(), sessionID, cartsvc.LineItemInput{
			ProductID:   payload.ProductID,
			VariationID: payload.VariationID,
			Attributes:  payload.Attributes,
			UnitPrice:   snap.UnitPrice,
			Quantity:    payload.Quantity,
			MaxQuantity: snap.StockQuantity,
			Name:        snap.Name,
			Image:       snap.Image,
			Slug:        snap.Slug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(view))
	}
}

// UpdateItem sets a row's quantity; zero or less removes the row.
func UpdateItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateQuantity(r.Context(), sessionID, itemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(view))
	}
}

// RemoveItem drops a row from the cart.
func RemoveItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := itemIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveItem(r.Context(), sessionID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(view))
	}
}

// Clear empties the session's cart.
func Clear(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionID, err := sessionFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Clear(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(view))
	}
}

func sessionFromContext(r *http.Request) (string, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sessionID, nil
}

func itemIDFromRequest(r *http.Request) (string, error) {
	itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
	if itemID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return itemID, nil
}
