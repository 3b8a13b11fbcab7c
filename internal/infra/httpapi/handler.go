// internal/infra/httpapi/handler.go
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"compliance_notification_service/internal/app"
	"compliance_notification_service/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// ReminderJob is the slice of the reminder service the HTTP layer needs.
type ReminderJob interface {
	Run(ctx context.Context) (*app.Summary, error)
}

// CronHandler serves the scheduler-facing trigger endpoint.
type CronHandler struct {
	cfg    *config.AppConfig
	job    ReminderJob
	logger *logrus.Logger
}

func NewCronHandler(cfg *config.AppConfig, job ReminderJob, logger *logrus.Logger) *CronHandler {
	return &CronHandler{cfg: cfg, job: job, logger: logger}
}

// HandleComplianceExpiration gates the run behind the shared secret, then
// executes the job. Partial failure is still a 200: once grouping has begun,
// everything that goes wrong is reported inside the summary, not as an HTTP
// error.
func (h *CronHandler) HandleComplianceExpiration(w http.ResponseWriter, r *http.Request) {
	if h.cfg.CronSecret == "" {
		h.logger.Error("Cron endpoint hit but CRON_SECRET is not configured")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Cron job not configured"})
		return
	}

	if !ValidBearerToken(r.Header.Get("Authorization"), h.cfg.CronSecret) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}

	if h.cfg.ResendAPIKey == "" {
		h.logger.Error("Cron endpoint hit but RESEND_API_KEY is not configured")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Email service not configured"})
		return
	}

	summary, err := h.job.Run(r.Context())
	if err != nil {
		// Run only errors before any sends are attempted (the bulk fetch).
		h.logger.Errorf("Reminder job aborted: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Database error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
