package dialog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConfirm_Answered(t *testing.T) {
	b := NewBroker()
	go func() {
		req := <-b.Requests()
		if req.Kind != KindConfirm {
			t.Errorf("expected confirm, got %s", req.Kind)
		}
		if !req.Danger {
			t.Error("expected danger flag")
		}
		req.Confirm()
	}()

	ok, err := b.Confirm(context.Background(), "Delete", "Really?", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected confirmation")
	}
}

func TestPrompt_Dismissed(t *testing.T) {
	b := NewBroker()
	go func() {
		req := <-b.Requests()
		req.Cancel()
	}()

	_, ok, err := b.Prompt(context.Background(), "Lock", "Password", "Password", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected dismissal")
	}
}

func TestSecondDialogRejectedWhileOpen(t *testing.T) {
	b := NewBroker()
	opened := make(chan *Request, 1)
	go func() {
		opened <- <-b.Requests()
	}()

	result := make(chan error, 1)
	go func() {
		_, err := b.Confirm(context.Background(), "First", "", false)
		result <- err
	}()

	req := <-opened

	// The first dialog is still open; a second must fail, not queue.
	if _, err := b.Confirm(context.Background(), "Second", "", false); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	req.Confirm()
	if err := <-result; err != nil {
		t.Errorf("unexpected error from first dialog: %v", err)
	}
}

func TestConfirm_ContextCancel(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-b.Requests()
		cancel()
	}()

	_, err := b.Confirm(ctx, "Hang", "", false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	// The slot must free up after the cancel.
	done := make(chan struct{})
	go func() {
		req := <-b.Requests()
		req.Confirm()
		close(done)
	}()
	if _, err := b.Confirm(context.Background(), "Next", "", false); err != nil {
		t.Errorf("slot still busy after cancel: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second dialog never delivered")
	}
}

func TestSaveDiscardCancel_Choices(t *testing.T) {
	b := NewBroker()

	for _, want := range []Choice{ChoiceSave, ChoiceDiscard, ChoiceCancel} {
		want := want
		go func() {
			req := <-b.Requests()
			if req.Kind != KindChoice {
				t.Errorf("expected choice kind, got %s", req.Kind)
			}
			req.Choose(want)
		}()
		got, err := b.SaveDiscardCancel(context.Background(), "Unsaved changes", "note.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("choice = %q, want %q", got, want)
		}
	}

	// A plain dismissal reads as cancel.
	go func() {
		req := <-b.Requests()
		req.Cancel()
	}()
	got, err := b.SaveDiscardCancel(context.Background(), "Unsaved changes", "note.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ChoiceCancel {
		t.Errorf("dismissal = %q, want %q", got, ChoiceCancel)
	}
}
