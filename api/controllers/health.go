package controllers

import (
	"context"
	"net/http"

	"github.com/mvalderrama/pixelmart-backend/api/responses"
	"github.com/mvalderrama/pixelmart-backend/pkg/config"
	dblib "github.com/mvalderrama/pixelmart-backend/pkg/db"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
	"github.com/mvalderrama/pixelmart-backend/pkg/logger"
	redislib "github.com/mvalderrama/pixelmart-backend/pkg/redis"
	"github.com/mvalderrama/pixelmart-backend/pkg/storage/gcs"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pixelmart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when every backing dependency answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pixelmart-Env", cfg.App.Env)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ping "+name))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

// ReadinessDeps adapts concrete clients into the ping map HealthReady
// expects. Nil clients are left out so a partially wired test router still
// answers.
func ReadinessDeps(db *dblib.Client, redisClient *redislib.Client, gcsClient *gcs.Client) map[string]pinger {
	deps := map[string]pinger{}
	if db != nil {
		deps["postgres"] = db
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	if gcsClient != nil {
		deps["gcs"] = gcsClient
	}
	return deps
}
