package reclass

import (
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/session"
)

// Reviewer runs the review of master records inside a session.
type Reviewer interface {
	// NewSession starts an empty session.
	NewSession() *session.State

	// EndSession discards the session state. Ledger rows and hierarchy
	// entries already written are kept.
	EndSession(s *session.State)

	// NextUnresolved presents the next record to review.
	NextUnresolved(s *session.State) (reconcile.Result, error)

	// Submit appends the reclassification of recordID to the ledger.
	Submit(s *session.State, recordID string, sel reconcile.Selection, alias string) (reconcile.Submission, error)

	// Skip excludes recordID for the rest of the session. Only records
	// that exist and are not completed can be skipped.
	Skip(s *session.State, recordID string) (reconcile.Result, error)

	// SetAliasDraft stores the alias being typed for the current record.
	SetAliasDraft(s *session.State, alias string)

	// Progress reports completed, skipped and total counts. s may be nil.
	Progress(s *session.State) (reconcile.Progress, error)
}

// NewSession starts an empty session.
func (c *client) NewSession() *session.State {
	s := session.New()
	c.logger.Debug().Str("session_id", s.ID()).Msg("Session started")
	return s
}

// EndSession discards the session state.
func (c *client) EndSession(s *session.State) {
	if s == nil {
		return
	}
	s.End()
	c.logger.Debug().Str("session_id", s.ID()).Msg("Session ended")
}

// NextUnresolved presents the next record to review.
func (c *client) NextUnresolved(s *session.State) (reconcile.Result, error) {
	c.mu.Lock()
	was := wasComplete(s)
	res, err := c.engine.NextUnresolved(s)
	c.mu.Unlock()
	if err != nil {
		return res, err
	}
	if res.AllComplete() && !was {
		c.notifyAllComplete(s)
	}
	return res, nil
}

// Submit looks up recordID and appends its reclassification.
// An unknown record is a *errors.NotFoundError; a completed or skipped one
// is a *errors.ValidationError.
func (c *client) Submit(s *session.State, recordID string, sel reconcile.Selection, alias string) (reconcile.Submission, error) {
	record, err := c.engine.Records().Get(recordID)
	if err != nil {
		return reconcile.Submission{}, err
	}

	c.mu.Lock()
	was := wasComplete(s)
	sub, err := c.engine.Submit(s, record, sel, alias)
	c.mu.Unlock()
	if err != nil {
		if sub.Response.ID != "" {
			// The row was written; only the follow-up lookup failed.
			c.hooks.submitted(sub.Response)
		}
		return sub, err
	}

	c.hooks.submitted(sub.Response)
	if sub.Next.AllComplete() && !was {
		c.notifyAllComplete(s)
	}
	return sub, nil
}

// Skip excludes recordID for the rest of the session.
func (c *client) Skip(s *session.State, recordID string) (reconcile.Result, error) {
	c.mu.Lock()
	was := wasComplete(s)
	res, err := c.engine.Skip(s, recordID)
	c.mu.Unlock()
	if err != nil {
		return res, err
	}

	c.hooks.skipped(s.ID(), recordID)
	if res.AllComplete() && !was {
		c.notifyAllComplete(s)
	}
	return res, nil
}

// SetAliasDraft stores the alias being typed for the current record.
func (c *client) SetAliasDraft(s *session.State, alias string) {
	if s == nil {
		return
	}
	s.SetAliasDraft(alias)
}

// Progress reports completed, skipped and total counts.
func (c *client) Progress(s *session.State) (reconcile.Progress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Progress(s)
}

func (c *client) notifyAllComplete(s *session.State) {
	p, err := c.Progress(s)
	if err != nil {
		logging.Component(c.logger, "reclass").Warn().Err(err).Msg("Could not compute progress")
		return
	}
	c.hooks.allComplete(s.ID(), p)
}

// wasComplete reports whether s was already all complete.
func wasComplete(s *session.State) bool {
	return s != nil && s.Complete()
}
