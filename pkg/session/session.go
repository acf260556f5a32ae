// Package session holds the per-reviewer state of one reconciliation session.
//
// A State lives for exactly one session and is never persisted: skipped
// records come back as soon as a new State is created. It is passed by
// reference into every engine call.
package session

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the mutable state of one review session.
type State struct {
	mu         sync.RWMutex
	id         string
	createdAt  time.Time
	skipped    map[string]struct{}
	currentID  string
	aliasDraft string
	complete   bool
	ended      bool
}

// New returns an empty state with a random ID.
func New() *State {
	return &State{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		skipped:   make(map[string]struct{}),
	}
}

// ID identifies the session.
func (s *State) ID() string {
	return s.id
}

// CreatedAt returns when the session was created.
func (s *State) CreatedAt() time.Time {
	return s.createdAt
}

// Skip adds id to the skipped set.
func (s *State) Skip(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped[strings.TrimSpace(id)] = struct{}{}
}

// IsSkipped reports whether id was skipped in this session.
func (s *State) IsSkipped(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.skipped[strings.TrimSpace(id)]
	return ok
}

// SkippedIDs returns the skipped IDs, sorted.
func (s *State) SkippedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.skipped))
	for id := range s.skipped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SkippedCount returns the number of skipped IDs.
func (s *State) SkippedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.skipped)
}

// Select makes id the current record. Moving to a different record clears
// the alias draft; selecting the current record again keeps it.
func (s *State) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID != id {
		s.currentID = id
		s.aliasDraft = ""
	}
}

// CurrentID returns the record under review, or "" when none is.
func (s *State) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// AliasDraft returns the alias typed so far for the current record.
func (s *State) AliasDraft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aliasDraft
}

// SetAliasDraft stores the alias being typed.
func (s *State) SetAliasDraft(alias string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliasDraft = alias
}

// ClearAliasDraft empties the alias draft.
func (s *State) ClearAliasDraft() {
	s.SetAliasDraft("")
}

// SetComplete records whether the last lookup found nothing left to review.
// It reports whether the value changed.
func (s *State) SetComplete(complete bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.complete != complete
	s.complete = complete
	return changed
}

// Complete reports whether the last lookup found nothing left to review.
func (s *State) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complete
}

// End discards the skipped set, the current record and the draft.
// Persisted ledger rows and hierarchy entries are untouched.
func (s *State) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped = make(map[string]struct{})
	s.currentID = ""
	s.aliasDraft = ""
	s.complete = false
	s.ended = true
}

// Ended reports whether End was called.
func (s *State) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}
