package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/alexmoren/storefront-backend/api/responses"
	"github.com/alexmoren/storefront-backend/pkg/config"
	pkgerrors "github.com/alexmoren/storefront-backend/pkg/errors"
	"github.com/alexmoren/storefront-backend/pkg/logger"
)

const envHeader = "X-Storefront-Env"

// Pinger is implemented by every dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every registered dependency answers a
// ping. Failures are combined so the log shows all broken dependencies at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		var combined error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				combined = multierr.Append(combined, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
			}
		}
		if combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
