package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aurelhart/storefront-backend/api/responses"
	pkgauth "github.com/aurelhart/storefront-backend/pkg/auth"
	"github.com/aurelhart/storefront-backend/pkg/config"
	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// session claims. Carts are keyed by session, so every cart route requires a
// token even for anonymous shoppers.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if strings.TrimSpace(claims.SessionID) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, claims.SessionID)
			if claims.CustomerID != nil {
				ctx = context.WithValue(ctx, ctxCustomerID, *claims.CustomerID)
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, claims.SessionID)
				if claims.CustomerID != nil {
					ctx = logg.WithField(ctx, "customer_id", *claims.CustomerID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
