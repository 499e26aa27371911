package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/detalhesstore/detalhes-backend/api/responses"
	"github.com/detalhesstore/detalhes-backend/pkg/config"
	"github.com/detalhesstore/detalhes-backend/pkg/db"
	pkgerrors "github.com/detalhesstore/detalhes-backend/pkg/errors"
	"github.com/detalhesstore/detalhes-backend/pkg/logger"
	"github.com/detalhesstore/detalhes-backend/pkg/redis"
)

const healthProbeTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Detalhes-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the wired dependencies. A nil database pinger means the
// service runs in offline mode and stays ready without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Detalhes-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			checks["database"] = "offline"
		} else if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		} else {
			checks["database"] = "ok"
		}

		if redisP == nil {
			checks["redis"] = "offline"
		} else if err := redisP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		} else {
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
