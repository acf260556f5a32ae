package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (r *recorder) Send(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) received() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(8, nil)
	a, c := &recorder{}, &recorder{}
	b.Subscribe(a)
	b.Subscribe(c)
	assert.Equal(t, 2, b.SubscriberCount())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	b.Publish(SubmissionCreated, map[string]string{"id": "1"})
	b.Publish(RecordSkipped, map[string]string{"id": "2"})

	require.Eventually(t, func() bool {
		return len(a.received()) == 2 && len(c.received()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, SubmissionCreated, a.received()[0].Type)
	assert.Equal(t, RecordSkipped, c.received()[1].Type)
	assert.False(t, a.received()[0].Timestamp.IsZero())

	cancel()
	<-done
	assert.True(t, a.closed)
	assert.Zero(t, b.SubscriberCount())
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker(1, nil)
	b.Publish(SubmissionCreated, nil)
	b.Publish(SubmissionCreated, nil) // dropped, not blocked
	assert.Len(t, b.events, 1)
}

func TestUnsubscribe(t *testing.T) {
	b := NewBroker(1, nil)
	r := &recorder{}
	b.Subscribe(r)
	b.Unsubscribe(r)
	assert.Zero(t, b.SubscriberCount())
	assert.True(t, r.closed)
}
