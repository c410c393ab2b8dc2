package explorer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingPreviewAPI struct {
	calls atomic.Int32
}

func (c *countingPreviewAPI) Preview(ctx context.Context, name string) (string, error) {
	c.calls.Add(1)
	return "preview of " + name, nil
}

func TestPreviewer_DebouncesToLatest(t *testing.T) {
	api := &countingPreviewAPI{}
	p := NewPreviewer(api)
	p.delay = 20 * time.Millisecond

	// Sweeping across entries: only the last hover may fetch.
	p.Request(context.Background(), "a.png")
	p.Request(context.Background(), "b.png")
	p.Request(context.Background(), "c.png")

	select {
	case res := <-p.Results():
		if res.Name != "c.png" {
			t.Errorf("expected latest entry, got %s", res.Name)
		}
		if res.Content != "preview of c.png" {
			t.Errorf("unexpected content: %s", res.Content)
		}
	case <-time.After(time.Second):
		t.Fatal("no preview delivered")
	}

	if got := api.calls.Load(); got != 1 {
		t.Errorf("expected 1 fetch, got %d", got)
	}
}

func TestPreviewer_CancelDropsPending(t *testing.T) {
	api := &countingPreviewAPI{}
	p := NewPreviewer(api)
	p.delay = 20 * time.Millisecond

	p.Request(context.Background(), "a.png")
	p.Cancel()

	select {
	case res := <-p.Results():
		t.Errorf("canceled preview still delivered: %+v", res)
	case <-time.After(100 * time.Millisecond):
	}
	if got := api.calls.Load(); got != 0 {
		t.Errorf("expected no fetch after cancel, got %d", got)
	}
}
