package adapters

import (
	"strconv"
	"sync/atomic"

	"github.com/agentstation/reclass/internal/server/events"
	"github.com/agentstation/reclass/internal/server/sse"
)

// SSESubscriber forwards broker events to the SSE broadcaster. Events get
// increasing ids so browsers can tell them apart.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
	seq         atomic.Uint64
}

// NewSSESubscriber creates a new SSE subscriber.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send delivers an event to all SSE clients.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(event.Type),
		ID:    strconv.FormatUint(s.seq.Add(1), 10),
		Data:  event.Data,
	})
	return nil
}

// Close is a no-op; the broadcaster stops with its own context.
func (s *SSESubscriber) Close() error {
	return nil
}
