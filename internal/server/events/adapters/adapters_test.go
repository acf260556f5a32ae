package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass/internal/server/events"
	"github.com/agentstation/reclass/internal/server/sse"
	ws "github.com/agentstation/reclass/internal/server/websocket"
)

func TestSubscribersNeverFail(t *testing.T) {
	event := events.Event{Type: events.RecordSkipped, Timestamp: time.Now(), Data: "7"}

	s := NewSSESubscriber(sse.NewBroadcaster(nil))
	require.NoError(t, s.Send(event))
	require.NoError(t, s.Send(event))
	assert.Equal(t, uint64(2), s.seq.Load())
	assert.NoError(t, s.Close())

	w := NewWebSocketSubscriber(ws.NewHub(nil))
	require.NoError(t, w.Send(event))
	assert.NoError(t, w.Close())
}

func TestSubscribersSatisfyInterface(t *testing.T) {
	var _ events.Subscriber = (*SSESubscriber)(nil)
	var _ events.Subscriber = (*WebSocketSubscriber)(nil)
}
