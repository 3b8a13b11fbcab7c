// internal/infra/httpapi/router.go
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Pinger is the health-check view of the database pool.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter assembles the service's HTTP surface: the cron trigger endpoint
// and a liveness probe.
func NewRouter(cronHandler *CronHandler, db Pinger, logger *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(recoverJSON(logger))

	r.Get("/api/cron/compliance-expiration", cronHandler.HandleComplianceExpiration)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Warnf("Health check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	return r
}

// recoverJSON is a Recoverer variant that emits the JSON error body the
// scheduler expects instead of chi's plain-text 500.
func recoverJSON(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Errorf("Panic serving %s %s: %v", r.Method, r.URL.Path, rec)
					writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
