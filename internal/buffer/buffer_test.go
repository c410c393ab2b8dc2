package buffer

import (
	"context"
	"errors"
	"testing"

	"github.com/snailsynk/snailsynk-go/internal/status"
)

type fakeAPI struct {
	text     string
	setCalls int
	setErr   error

	block   chan struct{} // when set, SetSharedText waits on it
	entered chan struct{}
}

func (f *fakeAPI) SharedText(ctx context.Context) (string, error) {
	return f.text, nil
}

func (f *fakeAPI) SetSharedText(ctx context.Context, text string) error {
	f.setCalls++
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	if f.setErr != nil {
		return f.setErr
	}
	f.text = text
	return nil
}

func TestLoad(t *testing.T) {
	api := &fakeAPI{text: "initial"}
	m := NewModel(api, status.NewNotifier())

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, dirty := m.Text()
	if text != "initial" || dirty {
		t.Errorf("expected clean initial text, got %q dirty=%v", text, dirty)
	}
}

func TestSetTextMarksDirty(t *testing.T) {
	m := NewModel(&fakeAPI{}, status.NewNotifier())
	m.SetText("draft")

	text, dirty := m.Text()
	if text != "draft" || !dirty {
		t.Errorf("expected dirty draft, got %q dirty=%v", text, dirty)
	}
	if m.Source() != SourceLocal {
		t.Errorf("expected local source, got %s", m.Source())
	}
}

func TestCommitSendsText(t *testing.T) {
	api := &fakeAPI{}
	m := NewModel(api, status.NewNotifier())
	m.SetText("outgoing")

	if err := m.Commit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.text != "outgoing" {
		t.Errorf("expected server to receive outgoing, got %q", api.text)
	}
}

func TestCommitFailureFlashes(t *testing.T) {
	api := &fakeAPI{setErr: errors.New("down")}
	notifier := status.NewNotifier()
	m := NewModel(api, notifier)
	m.SetText("doomed")

	if err := m.Commit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(notifier.Flashes()) != 1 {
		t.Error("expected an error flash")
	}
}

func TestApplyRemoteOverwritesLocalEdits(t *testing.T) {
	m := NewModel(&fakeAPI{}, status.NewNotifier())
	m.SetText("my unsaved work")

	// A concurrent writer's push wins over local edits.
	m.ApplyRemote("their version")

	text, dirty := m.Text()
	if text != "their version" {
		t.Errorf("expected remote text to win, got %q", text)
	}
	if dirty {
		t.Error("expected clean state after remote apply")
	}
	if m.Source() != SourceRemote {
		t.Errorf("expected remote source, got %s", m.Source())
	}
}

func TestCommit_BusyWhileInFlight(t *testing.T) {
	api := &fakeAPI{block: make(chan struct{}), entered: make(chan struct{})}
	m := NewModel(api, status.NewNotifier())
	m.SetText("draft")

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- m.Commit(context.Background())
	}()

	<-started
	<-api.entered
	if !m.Busy() {
		t.Error("expected Busy during an in-flight commit")
	}
	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Busy() {
		t.Error("expected Busy cleared after the commit")
	}
}

func TestCommit_BusyClearedOnFailure(t *testing.T) {
	api := &fakeAPI{setErr: errors.New("down")}
	m := NewModel(api, status.NewNotifier())
	m.SetText("draft")

	if err := m.Commit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if m.Busy() {
		t.Error("expected Busy cleared after a failed commit")
	}
}
