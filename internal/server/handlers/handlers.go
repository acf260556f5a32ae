// Package handlers provides HTTP request handlers for the reclass review API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/internal/server/response"
	"github.com/agentstation/reclass/internal/server/sessions"
	"github.com/agentstation/reclass/internal/server/sse"
	ws "github.com/agentstation/reclass/internal/server/websocket"
	"github.com/agentstation/reclass/pkg/session"
)

// maxBodyBytes bounds request bodies; every payload is a handful of strings.
const maxBodyBytes = 64 << 10

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	client         reclass.Client
	sessions       *sessions.Registry
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
	startTime      time.Time
}

// New creates a new Handlers instance.
func New(
	client reclass.Client,
	registry *sessions.Registry,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		client:         client,
		sessions:       registry,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		startTime:      time.Now(),
	}
}

// session resolves the {id} path value. On failure it writes the error
// response and returns nil.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *session.State {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		response.ErrorFromType(w, err)
		return nil
	}
	return s
}

// decode reads a JSON body into v. On failure it writes a 400 and
// returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return false
	}
	return true
}
