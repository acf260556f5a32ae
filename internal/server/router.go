package server

import (
	"net/http"

	"github.com/agentstation/reclass/internal/server/handlers"
	"github.com/agentstation/reclass/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.client,
		s.sessions,
		s.wsHub,
		s.sseBroadcaster,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, s.metrics.Instrument(pattern, fn))
	}

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints (no auth required)
	handle("GET /health", h.HandleHealth)
	handle("GET "+prefix+"/health", h.HandleHealth)
	handle("GET "+prefix+"/ready", h.HandleReady)

	// Sessions
	handle("POST "+prefix+"/sessions", h.HandleCreateSession)
	handle("DELETE "+prefix+"/sessions/{id}", h.HandleEndSession)
	handle("GET "+prefix+"/sessions/{id}/next", h.HandleNext)
	handle("GET "+prefix+"/sessions/{id}/progress", h.HandleSessionProgress)
	handle("PUT "+prefix+"/sessions/{id}/draft", h.HandleSetDraft)
	handle("POST "+prefix+"/sessions/{id}/submit", h.HandleSubmit)
	handle("POST "+prefix+"/sessions/{id}/skip", h.HandleSkip)
	handle("GET "+prefix+"/progress", h.HandleProgress)

	// Hierarchy
	handle("GET "+prefix+"/hierarchy", h.HandleListHierarchy)
	handle("POST "+prefix+"/hierarchy", h.HandleAddHierarchyEntry)
	handle("GET "+prefix+"/hierarchy/options", h.HandleCascadeOptions)

	// Ledger and records
	handle("GET "+prefix+"/ledger", h.HandleLedger)
	handle("GET "+prefix+"/ledger/export", h.HandleExportLedger)
	handle("GET "+prefix+"/records/{id}", h.HandleGetRecord)

	// Real-time endpoints; long-lived, so not instrumented
	mux.HandleFunc("GET "+prefix+"/events/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/events/stream", h.HandleSSE)

	// Metrics endpoint (optional)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	// Rate limiting (if enabled)
	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, s.logger)
		handler = middleware.RateLimit(rateLimiter)(handler)
	}

	// Authentication (if enabled)
	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.Enabled = true
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		if cfg.APIKey != "" {
			authConfig.APIKey = cfg.APIKey
		}
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
