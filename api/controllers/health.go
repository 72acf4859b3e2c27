package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aurelhart/storefront-backend/api/responses"
	"github.com/aurelhart/storefront-backend/pkg/config"
	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
)

const envHeader = "X-Storefront-Env"

// Pinger is the health-check surface a backing dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores. A nil pinger is skipped: the memory
// and file cart backends have nothing to check.
func HealthReady(cfg *config.Config, logg *logger.Logger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var errs error
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("redis: %w", err))
			}
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
