package handlers

import "net/http"

// HandleWebSocket handles WebSocket connections at /api/v1/events/ws.
// @Summary WebSocket review events
// @Description WebSocket connection for live review events
// @Tags events
// @Success 101 "Switching Protocols"
// @Router /api/v1/events/ws [get].
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsHub.ServeHTTP(w, r)
}

// HandleSSE handles Server-Sent Events at /api/v1/events/stream.
// @Summary SSE review events
// @Description Server-Sent Events stream of review events
// @Tags events
// @Produce text/event-stream
// @Success 200 "Event stream"
// @Router /api/v1/events/stream [get].
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
