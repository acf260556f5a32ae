package reclass

import (
	"sync"

	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/reconcile"
)

// Hook function types for review events
type (
	// SubmittedHook is called after a ledger row is appended
	SubmittedHook func(resp ledger.Response)

	// SkippedHook is called after a record is skipped in a session
	SkippedHook func(sessionID, recordID string)

	// HierarchyEntryAddedHook is called after a hierarchy option is added
	HierarchyEntryAddedHook func(option hierarchy.Option)

	// AllCompleteHook is called when a session runs out of records to review
	AllCompleteHook func(sessionID string, progress reconcile.Progress)
)

// Hooks registers event callbacks. Callbacks run synchronously after the
// operation has finished and may call back into the Client.
type Hooks interface {
	OnSubmitted(fn SubmittedHook)
	OnSkipped(fn SkippedHook)
	OnHierarchyEntryAdded(fn HierarchyEntryAddedHook)
	OnAllComplete(fn AllCompleteHook)
}

// hooks manages event callbacks
type hooks struct {
	mu                    sync.RWMutex
	onSubmitted           []SubmittedHook
	onSkipped             []SkippedHook
	onHierarchyEntryAdded []HierarchyEntryAddedHook
	onAllComplete         []AllCompleteHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnSubmitted registers a callback for accepted reclassifications
func (c *client) OnSubmitted(fn SubmittedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onSubmitted = append(c.hooks.onSubmitted, fn)
}

// OnSkipped registers a callback for skipped records
func (c *client) OnSkipped(fn SkippedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onSkipped = append(c.hooks.onSkipped, fn)
}

// OnHierarchyEntryAdded registers a callback for new hierarchy options
func (c *client) OnHierarchyEntryAdded(fn HierarchyEntryAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onHierarchyEntryAdded = append(c.hooks.onHierarchyEntryAdded, fn)
}

// OnAllComplete registers a callback for sessions with nothing left to review
func (c *client) OnAllComplete(fn AllCompleteHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onAllComplete = append(c.hooks.onAllComplete, fn)
}

func (h *hooks) submitted(resp ledger.Response) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSubmitted {
		fn(resp)
	}
}

func (h *hooks) skipped(sessionID, recordID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onSkipped {
		fn(sessionID, recordID)
	}
}

func (h *hooks) hierarchyEntryAdded(o hierarchy.Option) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onHierarchyEntryAdded {
		fn(o)
	}
}

func (h *hooks) allComplete(sessionID string, p reconcile.Progress) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onAllComplete {
		fn(sessionID, p)
	}
}
