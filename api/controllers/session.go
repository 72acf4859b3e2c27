package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aurelhart/storefront-backend/api/responses"
	pkgauth "github.com/aurelhart/storefront-backend/pkg/auth"
	"github.com/aurelhart/storefront-backend/pkg/config"
	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
)

// SessionIssue mints an anonymous session token. Only mounted outside
// production; real deployments get tokens from the CMS.
func SessionIssue(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := uuid.NewString()

		token, err := pkgauth.MintSessionToken(cfg.JWT, time.Now(), pkgauth.SessionTokenPayload{
			SessionID: sessionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"session_id": sessionID,
			"token":      token,
		})
	}
}
