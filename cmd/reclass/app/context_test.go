package app

import (
	"context"
	"testing"
	"time"
)

func TestContextWithSignals(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := ContextWithSignals(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with its parent")
	}
}
