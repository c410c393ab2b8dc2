package transport

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_RefreshesUntilCanceled(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	for calls.Load() < 3 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestPoller_SurvivesRefreshErrors(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(5*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("refresh failed")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	if calls.Load() < 2 {
		t.Errorf("expected repeated attempts despite errors, got %d", calls.Load())
	}
}
