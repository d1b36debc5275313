package handlers

import (
	"net/http"
	"time"

	"github.com/devKoy/csv-version-compare/internal/server/response"
)

// HandleHealth handles GET /api/v1/health.
// @Summary Health check
// @Description Health check endpoint (liveness check)
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "csvcompare-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready.
// @Summary Readiness check
// @Description Readiness check including profile registry and cache status
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	registry, err := h.app.Profiles()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Profile registry not available")
		response.ServiceUnavailable(w, "Profiles not available")
		return
	}

	response.OK(w, map[string]any{
		"status":   "ready",
		"profiles": len(registry.List()),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}
