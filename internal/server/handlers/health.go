package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/reclass/internal/server/response"
)

// HandleHealth handles GET /health.
// @Summary Health check
// @Description Health check endpoint (liveness probe)
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "reclass-api",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready.
// @Summary Readiness check
// @Description Readiness check including store sizes and realtime clients
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	records := h.client.Records()
	if len(records) == 0 {
		response.ServiceUnavailable(w, "No master records loaded")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"records":           len(records),
		"hierarchy_options": len(h.client.HierarchyOptions()),
		"sessions":          h.sessions.Len(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
		"uptime":            time.Since(h.startTime).Round(time.Second).String(),
	})
}
