// Package reconcile implements the reconciliation engine.
//
// The engine walks the master records in store order and presents the first
// one that is neither completed (present in the ledger) nor skipped in the
// current session. Accepting a classification appends one ledger row;
// skipping only touches the session. The engine is in one of two states:
// reviewing a record, or all complete.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/records"
	"github.com/agentstation/reclass/pkg/session"
)

// State is the engine state after an operation.
type State string

const (
	// StateReviewing means a record is presented for review.
	StateReviewing State = "reviewing"
	// StateAllComplete means every record is completed or skipped.
	StateAllComplete State = "all_complete"
)

// String returns the string representation of a state.
func (s State) String() string {
	return string(s)
}

// Result is what the engine presents after an operation.
type Result struct {
	State  State           `json:"state" yaml:"state"`
	Record *records.Record `json:"record,omitempty" yaml:"record,omitempty"`
}

// AllComplete reports whether nothing is left to review.
func (r Result) AllComplete() bool {
	return r.State == StateAllComplete
}

// Selection is a chosen replacement classification.
type Selection struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Category string `json:"category" yaml:"category"`
}

// Submission is the outcome of Submit: the row written and what comes next.
type Submission struct {
	Response ledger.Response `json:"response" yaml:"response"`
	Next     Result          `json:"next" yaml:"next"`
}

// Progress summarizes how far the review has come.
type Progress struct {
	Completed int     `json:"completed" yaml:"completed"`
	Skipped   int     `json:"skipped" yaml:"skipped"`
	Total     int     `json:"total" yaml:"total"`
	Percent   float64 `json:"percent" yaml:"percent"`
}

// String returns a one-line summary.
func (p Progress) String() string {
	return fmt.Sprintf("%d/%d completed (%.1f%%), %d skipped", p.Completed, p.Total, p.Percent, p.Skipped)
}

// Engine runs reconciliation over the three stores.
// It holds no session data; every call takes the session explicitly.
type Engine struct {
	records   *records.Store
	hierarchy *hierarchy.Store
	ledger    ledger.Ledger
	logger    *zerolog.Logger
}

// Option configures an Engine
type Option func(*Engine) error

// WithLogger sets the engine logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logging.Component(logger, "reconcile")
		return nil
	}
}

// New creates an engine over the given stores.
func New(rs *records.Store, hs *hierarchy.Store, l ledger.Ledger, opts ...Option) (*Engine, error) {
	if rs == nil {
		return nil, fmt.Errorf("records store cannot be nil")
	}
	if hs == nil {
		return nil, fmt.Errorf("hierarchy store cannot be nil")
	}
	if l == nil {
		return nil, fmt.Errorf("ledger cannot be nil")
	}

	e := &Engine{
		records:   rs,
		hierarchy: hs,
		ledger:    l,
		logger:    logging.Component(nil, "reconcile"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Records returns the master record store.
func (e *Engine) Records() *records.Store {
	return e.records
}

// Hierarchy returns the hierarchy option store.
func (e *Engine) Hierarchy() *hierarchy.Store {
	return e.hierarchy
}

// Ledger returns the response ledger.
func (e *Engine) Ledger() ledger.Ledger {
	return e.ledger
}

// NextUnresolved returns the first record in store order whose ID is neither
// completed nor skipped in s, and makes it the session's current record.
// When no such record exists the result is StateAllComplete and the session
// has no current record.
func (e *Engine) NextUnresolved(s *session.State) (Result, error) {
	if err := checkSession(s); err != nil {
		return Result{}, err
	}
	completed, err := e.ledger.CompletedIDs()
	if err != nil {
		return Result{}, err
	}

	var next *records.Record
	e.records.Each(func(r records.Record) bool {
		if completed.Has(r.ID) || s.IsSkipped(r.ID) {
			return true
		}
		next = &r
		return false
	})

	if next == nil {
		s.Select("")
		s.SetComplete(true)
		e.logger.Debug().
			Str("session_id", s.ID()).
			Int("completed", completed.Len()).
			Int("skipped", s.SkippedCount()).
			Msg("All records complete")
		return Result{State: StateAllComplete}, nil
	}

	s.Select(next.ID)
	s.SetComplete(false)
	return Result{State: StateReviewing, Record: next}, nil
}

// Submit records sel as the new classification of record. The alias is
// trimmed and may be empty. The ledger row is appended, the alias draft is
// cleared and the next unresolved record is returned.
//
// A record that is already completed, or skipped in s, is a
// *errors.ValidationError and nothing is written.
//
// Submit does not check sel against the hierarchy; callers offer only
// values from CascadeOptions. Adapters that accept free text use
// CheckSelection first.
func (e *Engine) Submit(s *session.State, record records.Record, sel Selection, alias string) (Submission, error) {
	if err := checkSession(s); err != nil {
		return Submission{}, err
	}
	completed, err := e.ledger.CompletedIDs()
	if err != nil {
		return Submission{}, err
	}
	if completed.Has(record.ID) {
		return Submission{}, errors.NewValidationError("id", record.ID, "record is already completed")
	}
	if s.IsSkipped(record.ID) {
		return Submission{}, errors.NewValidationError("id", record.ID, "record was skipped in this session")
	}

	resp := ledger.Response{
		ID:                record.ID,
		OldSpaceName:      record.SpaceAliasName,
		OldType:           record.SpaceType,
		OldCategory:       record.SpaceCategory,
		Department:        record.DepartmentOccupied,
		NewSpaceName:      sel.Name,
		NewType:           sel.Type,
		NewCategory:       sel.Category,
		NewSpaceAliasName: strings.TrimSpace(alias),
	}
	if err := e.ledger.Append(resp); err != nil {
		return Submission{}, err
	}
	s.ClearAliasDraft()

	e.logger.Info().
		Str("session_id", s.ID()).
		Str("id", record.ID).
		Str("name", sel.Name).
		Str("type", sel.Type).
		Str("category", sel.Category).
		Msg("Reclassification submitted")

	next, err := e.NextUnresolved(s)
	if err != nil {
		return Submission{Response: resp}, err
	}
	return Submission{Response: resp, Next: next}, nil
}

// Skip excludes id from review for the rest of the session and returns the
// next unresolved record. The ledger is not touched. An unknown id is a
// *errors.NotFoundError and a completed one a *errors.ValidationError.
func (e *Engine) Skip(s *session.State, id string) (Result, error) {
	if err := checkSession(s); err != nil {
		return Result{}, err
	}
	if _, err := e.records.Get(id); err != nil {
		return Result{}, err
	}
	completed, err := e.ledger.CompletedIDs()
	if err != nil {
		return Result{}, err
	}
	if completed.Has(id) {
		return Result{}, errors.NewValidationError("id", id, "record is already completed")
	}
	s.Skip(id)

	e.logger.Debug().
		Str("session_id", s.ID()).
		Str("id", id).
		Msg("Record skipped")

	return e.NextUnresolved(s)
}

// Progress counts the completed set, the skipped set and the master records.
// A nil session counts no skips.
func (e *Engine) Progress(s *session.State) (Progress, error) {
	completed, err := e.ledger.CompletedIDs()
	if err != nil {
		return Progress{}, err
	}
	p := Progress{
		Completed: completed.Len(),
		Total:     e.records.Len(),
	}
	if s != nil {
		p.Skipped = s.SkippedCount()
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p, nil
}

func checkSession(s *session.State) error {
	if s == nil {
		return errors.NewValidationError("session", nil, "session is required")
	}
	if s.Ended() {
		return errors.ErrSessionEnded
	}
	return nil
}
