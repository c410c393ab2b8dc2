package status

import (
	"testing"
	"time"
)

func TestFlash_ExpiresAfterTTL(t *testing.T) {
	n := NewNotifier()
	now := time.Now()
	n.SetClock(func() time.Time { return now })

	n.Flash("saved", Success)
	if got := len(n.Flashes()); got != 1 {
		t.Fatalf("expected 1 flash, got %d", got)
	}

	now = now.Add(DefaultFlashTTL + time.Second)
	if got := len(n.Flashes()); got != 0 {
		t.Errorf("expected flash to expire, got %d", got)
	}
}

func TestFlash_Dismiss(t *testing.T) {
	n := NewNotifier()
	id := n.Flash("one", Info)
	n.Flash("two", Info)

	n.Dismiss(id)
	flashes := n.Flashes()
	if len(flashes) != 1 {
		t.Fatalf("expected 1 flash, got %d", len(flashes))
	}
	if flashes[0].Message != "two" {
		t.Errorf("wrong flash survived: %s", flashes[0].Message)
	}
}

func TestFlashes_NewestFirst(t *testing.T) {
	n := NewNotifier()
	n.Flash("first", Info)
	n.Flash("second", Info)

	flashes := n.Flashes()
	if flashes[0].Message != "second" || flashes[1].Message != "first" {
		t.Errorf("expected newest first, got %s then %s", flashes[0].Message, flashes[1].Message)
	}
}

func TestStatus_NewerMessageWins(t *testing.T) {
	n := NewNotifier()
	now := time.Now()
	n.SetClock(func() time.Time { return now })

	n.SetStatus("saving", Info, 2*time.Second)
	n.SetStatus("saved", Success, 10*time.Second)

	// The first message's would-be expiry passes; the newer message must
	// survive it.
	now = now.Add(3 * time.Second)
	msg, cat := n.Status()
	if msg != "saved" || cat != Success {
		t.Errorf("expected saved/success, got %q/%q", msg, cat)
	}

	now = now.Add(10 * time.Second)
	if msg, _ := n.Status(); msg != "" {
		t.Errorf("expected expired status, got %q", msg)
	}
}

func TestSubscribe_SignalsOnChange(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Flash("ping", Info)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}
}
