// Package sessions keeps the review sessions of HTTP clients.
// Sessions are held in a go-cache store keyed by session ID and expire
// after a period of inactivity.
package sessions

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/session"
)

// EndFunc releases a session that left the registry.
type EndFunc func(s *session.State)

// Registry maps session IDs to session state.
type Registry struct {
	store  *gocache.Cache
	ttl    time.Duration
	logger *zerolog.Logger
}

// New creates a registry whose sessions expire after ttl without use.
// end is called for every session that is deleted or expires.
func New(ttl time.Duration, end EndFunc, logger *zerolog.Logger) *Registry {
	r := &Registry{
		store:  gocache.New(ttl, cleanupInterval(ttl)),
		ttl:    ttl,
		logger: logging.Component(logger, "sessions"),
	}
	r.store.OnEvicted(func(id string, v any) {
		s, ok := v.(*session.State)
		if !ok {
			return
		}
		if end != nil {
			end(s)
		}
		r.logger.Debug().Str("session_id", id).Msg("Session released")
	})
	return r
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	if ttl < 2*time.Second {
		return ttl / 2
	}
	return time.Minute
}

// Add stores s under its ID.
func (r *Registry) Add(s *session.State) {
	r.store.Set(s.ID(), s, gocache.DefaultExpiration)
	r.logger.Debug().Str("session_id", s.ID()).Msg("Session registered")
}

// Get returns the session with the given ID and extends its lifetime.
// Unknown and expired sessions are a *errors.NotFoundError.
func (r *Registry) Get(id string) (*session.State, error) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	s := v.(*session.State)
	r.store.Set(id, s, gocache.DefaultExpiration)
	return s, nil
}

// Delete removes the session and ends it.
func (r *Registry) Delete(id string) error {
	if _, ok := r.store.Get(id); !ok {
		return errors.NewNotFoundError("session", id)
	}
	r.store.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.store.ItemCount()
}

// TTL returns the idle lifetime of a session.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}
