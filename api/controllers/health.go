package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/adityakhanna/trendora-backend/api/responses"
	"github.com/adityakhanna/trendora-backend/pkg/config"
	"github.com/adityakhanna/trendora-backend/pkg/db"
	pkgerrors "github.com/adityakhanna/trendora-backend/pkg/errors"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
	"github.com/adityakhanna/trendora-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Trendora-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when both backing stores answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Trendora-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		failed := false

		if dbP == nil {
			checks["database"] = "not configured"
			failed = true
		} else if err := dbP.Ping(ctx); err != nil {
			logg.Warn(ctx, "database ping failed: "+err.Error())
			checks["database"] = "unreachable"
			failed = true
		}

		if redisP == nil {
			checks["redis"] = "not configured"
			failed = true
		} else if err := redisP.Ping(ctx); err != nil {
			logg.Warn(ctx, "redis ping failed: "+err.Error())
			checks["redis"] = "unreachable"
			failed = true
		}

		if failed {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "service dependencies unavailable"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
