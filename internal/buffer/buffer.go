// Package buffer is the shared text buffer view-model. The server's push
// event carries the authoritative text; a successful POST only means the
// server accepted the write, the echo arrives over push.
package buffer

import (
	"context"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/status"
)

// API is the slice of the transport client the buffer needs.
type API interface {
	SharedText(ctx context.Context) (string, error)
	SetSharedText(ctx context.Context, text string) error
}

// Source records where the current text came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Model holds the buffer state. Concurrent remote updates follow a
// last-writer-wins policy: whatever the push stream delivers replaces the
// local text, uncommitted edits included.
type Model struct {
	mu       sync.Mutex
	text     string
	source   Source
	dirty    bool
	inflight bool
	api      API
	notifier *status.Notifier
}

func NewModel(api API, notifier *status.Notifier) *Model {
	return &Model{api: api, notifier: notifier, source: SourceRemote}
}

// Load fetches the current buffer once, for initial render before the
// push stream is established.
func (m *Model) Load(ctx context.Context) error {
	text, err := m.api.SharedText(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.text = text
	m.source = SourceRemote
	m.dirty = false
	m.mu.Unlock()
	return nil
}

// Text returns the current content and whether uncommitted edits exist.
func (m *Model) Text() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.dirty
}

// SetText records a local edit without sending it.
func (m *Model) SetText(text string) {
	m.mu.Lock()
	m.text = text
	m.source = SourceLocal
	m.dirty = true
	m.mu.Unlock()
}

// Commit sends the current text to the server. The buffer stays dirty
// until the push echo comes back through ApplyRemote. While the request
// is in flight Busy reports true so a frontend can disable its trigger.
func (m *Model) Commit(ctx context.Context) error {
	m.mu.Lock()
	text := m.text
	m.inflight = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inflight = false
		m.mu.Unlock()
	}()

	if err := m.api.SetSharedText(ctx, text); err != nil {
		m.notifier.Flash("Failed to update shared text", status.Error)
		return err
	}
	m.notifier.SetStatus("Saved", status.Success, 0)
	return nil
}

// Busy reports whether a commit is in flight.
func (m *Model) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight
}

// Clear wipes the buffer for everyone.
func (m *Model) Clear(ctx context.Context) error {
	if err := m.api.SetSharedText(ctx, ""); err != nil {
		m.notifier.Flash("Failed to clear shared text", status.Error)
		return err
	}
	return nil
}

// Paste appends the OS clipboard content to the buffer and commits.
func (m *Model) Paste(ctx context.Context) error {
	clip, err := clipboard.ReadAll()
	if err != nil {
		m.notifier.Flash("Clipboard is not available", status.Warning)
		return err
	}
	if clip == "" {
		return nil
	}

	m.mu.Lock()
	if m.text != "" && !strings.HasSuffix(m.text, "\n") {
		m.text += "\n"
	}
	m.text += clip
	m.source = SourceLocal
	m.dirty = true
	m.mu.Unlock()

	return m.Commit(ctx)
}

// CopyAll puts the whole buffer on the OS clipboard.
func (m *Model) CopyAll() error {
	m.mu.Lock()
	text := m.text
	m.mu.Unlock()

	if err := clipboard.WriteAll(text); err != nil {
		m.notifier.Flash("Copy failed", status.Error)
		return err
	}
	m.notifier.SetStatus("Copied to clipboard", status.Success, 0)
	return nil
}

// ApplyRemote replaces the buffer with pushed text. Last writer wins:
// local edits are discarded without prompting.
func (m *Model) ApplyRemote(text string) {
	m.mu.Lock()
	if m.dirty && m.text != text {
		logging.Debug("shared text overwritten by remote update")
	}
	m.text = text
	m.source = SourceRemote
	m.dirty = false
	m.mu.Unlock()
}

// Source reports whether the current text is a local edit or the last
// pushed state.
func (m *Model) Source() Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}
