package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/richtext-api/internal/api/shared"
)

// ISO8601Millis is the timestamp layout used by the health check, e.g.
// 2026-10-19T12:00:00.000Z.
const ISO8601Millis = "2006-01-02T15:04:05.000Z07:00"

// HealthHandler answers liveness probes.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler. A nil clock uses time.Now.
func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

// Health handles GET /health requests. It never fails.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(ISO8601Millis),
	})
}
