// Package server provides the HTTP adapter for the reclass review API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/internal/server/events"
	"github.com/agentstation/reclass/internal/server/events/adapters"
	"github.com/agentstation/reclass/internal/server/metrics"
	"github.com/agentstation/reclass/internal/server/sessions"
	"github.com/agentstation/reclass/internal/server/sse"
	ws "github.com/agentstation/reclass/internal/server/websocket"
	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/session"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	client         reclass.Client
	sessions       *sessions.Registry
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Metrics
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a server around client. Background services do not run
// until Start is called.
func New(client reclass.Client, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if client == nil {
		return nil, errors.NewConfigError("server", "client is required", nil)
	}
	logger = logging.OrNop(logger)
	logger.Debug().Msg("Creating new server instance")

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = constants.DefaultSessionTTL
	}
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	broker := events.NewBroker(256, logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Subscribe transports to broker
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		client:         client,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		config:         cfg,
		ctx:            ctx,
		cancel:         cancel,
		startTime:      time.Now(),
	}
	s.sessions = sessions.New(cfg.SessionTTL, func(st *session.State) {
		client.EndSession(st)
	}, logger)
	if cfg.MetricsEnabled {
		s.metrics = metrics.New(func() float64 { return float64(s.sessions.Len()) })
	}

	s.connectHooks()

	logger.Debug().Msg("Server instance created successfully")
	return s, nil
}

// connectHooks forwards client events to the broker and the counters.
func (s *Server) connectHooks() {
	s.client.OnSubmitted(func(resp ledger.Response) {
		s.broker.Publish(events.SubmissionCreated, map[string]any{
			"response": resp,
		})
		if s.metrics != nil {
			s.metrics.Submissions.Inc()
		}
	})

	s.client.OnSkipped(func(sessionID, recordID string) {
		s.broker.Publish(events.RecordSkipped, map[string]any{
			"session_id": sessionID,
			"record_id":  recordID,
		})
		if s.metrics != nil {
			s.metrics.Skips.Inc()
		}
	})

	s.client.OnHierarchyEntryAdded(func(o hierarchy.Option) {
		s.broker.Publish(events.HierarchyEntryAdded, map[string]any{
			"option": o,
		})
		if s.metrics != nil {
			s.metrics.HierarchyAdds.Inc()
		}
	})

	s.client.OnAllComplete(func(sessionID string, p reconcile.Progress) {
		s.broker.Publish(events.SessionAllComplete, map[string]any{
			"session_id": sessionID,
			"progress":   p,
		})
		if s.metrics != nil {
			s.metrics.SessionsDone.Inc()
		}
	})

	s.logger.Debug().Msg("Client hooks connected to event broker")
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// HTTPServer returns an http.Server for the configured address and timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown stops the background services. Streaming handlers return once
// their transport has stopped.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	select {
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		s.logger.Info().Msg("Background services shut down")
	}
	return nil
}

// Sessions returns the session registry.
func (s *Server) Sessions() *sessions.Registry {
	return s.sessions
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Metrics returns the collectors, or nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
