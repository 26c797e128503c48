package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/anikpatel-dev/vyapaar-backend/api/responses"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
	"github.com/anikpatel-dev/vyapaar-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

// HealthLive reports process liveness only.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vyapaar-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores and fails when any is unreachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vyapaar-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			checks["database"] = checkStatus(dbP.Ping(ctx), &healthy)
		}
		if redisP != nil {
			checks["redis"] = checkStatus(redisP.Ping(ctx), &healthy)
		}

		if !healthy {
			if logg != nil {
				logg.Warn(logg.WithFields(r.Context(), map[string]any{"checks": checks}), "health.ready.degraded")
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"checks": checks,
			})
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}

func checkStatus(err error, healthy *bool) string {
	if err != nil {
		*healthy = false
		return "down"
	}
	return "up"
}
