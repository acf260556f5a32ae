// Package events carries review activity from the reclass client hooks to
// the realtime transports.
//
// A single Broker receives every event and fans it out to its subscribers,
// one per transport (SSE, WebSocket). Transports never talk to the client
// directly.
package events

import "time"

// EventType represents the type of review event.
type EventType string

// Event types for review activity.
const (
	// SubmissionCreated is published after a ledger row is appended.
	SubmissionCreated EventType = "submission.created"

	// RecordSkipped is published after a record is skipped in a session.
	RecordSkipped EventType = "record.skipped"

	// HierarchyEntryAdded is published after a hierarchy option is added.
	HierarchyEntryAdded EventType = "hierarchy.entry_added"

	// SessionAllComplete is published when a session has nothing left.
	SessionAllComplete EventType = "session.all_complete"

	// ClientConnected is sent to a transport client when it connects.
	ClientConnected EventType = "client.connected"
)

// Event is one review event with its payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Subscriber is an event consumer, usually a transport.
type Subscriber interface {
	// Send delivers an event. It must not block.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}
