// Package pins is the pinned-messages view-model. The server holds the
// list; every mutation is confirmed by a push event carrying the full
// replacement list.
package pins

import (
	"context"
	"errors"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/markdown"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
)

// Limit is the server-enforced pin cap. The model rejects a pin at the
// cap locally so a doomed request never leaves the client.
const Limit = 10

// ErrLimitReached is returned by Add when the list is already full.
var ErrLimitReached = errors.New("pins: limit reached")

// API is the slice of the transport client the pins model needs.
type API interface {
	Pins(ctx context.Context) ([]protocol.Pin, error)
	AddPin(ctx context.Context, text string) ([]protocol.Pin, error)
	DeletePin(ctx context.Context, id string) ([]protocol.Pin, error)
	ClearPins(ctx context.Context) ([]protocol.Pin, error)
}

type Model struct {
	mu       sync.Mutex
	pins     []protocol.Pin
	api      API
	dialogs  *dialog.Broker
	notifier *status.Notifier
}

func NewModel(api API, dialogs *dialog.Broker, notifier *status.Notifier) *Model {
	return &Model{api: api, dialogs: dialogs, notifier: notifier}
}

// Load fetches the list once, for initial render before the push
// stream is established.
func (m *Model) Load(ctx context.Context) error {
	pins, err := m.api.Pins(ctx)
	if err != nil {
		return err
	}
	m.replace(pins)
	return nil
}

// Pins returns the current list in server order.
func (m *Model) Pins() []protocol.Pin {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.Pin, len(m.pins))
	copy(out, m.pins)
	return out
}

// CanPin reports whether another pin fits under the cap.
func (m *Model) CanPin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pins) < Limit
}

// Add pins a message. At the cap it fails locally with ErrLimitReached
// and sends nothing.
func (m *Model) Add(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if !m.CanPin() {
		m.notifier.Flash("Pin limit reached (10)", status.Warning)
		return ErrLimitReached
	}
	pins, err := m.api.AddPin(ctx, text)
	if err != nil {
		m.notifier.Flash("Failed to pin message", status.Error)
		return err
	}
	m.replace(pins)
	return nil
}

// Delete removes one pin by id.
func (m *Model) Delete(ctx context.Context, id string) error {
	pins, err := m.api.DeletePin(ctx, id)
	if err != nil {
		m.notifier.Flash("Failed to delete pin", status.Error)
		return err
	}
	m.replace(pins)
	return nil
}

// Clear removes every pin after an explicit confirmation.
func (m *Model) Clear(ctx context.Context) error {
	ok, err := m.dialogs.Confirm(ctx, "Clear all pins", "Delete every pinned message?", true)
	if err != nil || !ok {
		return err
	}
	pins, err := m.api.ClearPins(ctx)
	if err != nil {
		m.notifier.Flash("Failed to clear pins", status.Error)
		return err
	}
	m.replace(pins)
	return nil
}

// Copy puts a pin's raw text on the OS clipboard.
func (m *Model) Copy(id string) error {
	m.mu.Lock()
	var text string
	for _, p := range m.pins {
		if p.ID == id {
			text = p.Text
			break
		}
	}
	m.mu.Unlock()

	if err := clipboard.WriteAll(text); err != nil {
		m.notifier.Flash("Copy failed", status.Error)
		return err
	}
	m.notifier.SetStatus("Pin copied", status.Success, 0)
	return nil
}

// HTML renders a pin's text as markdown.
func (m *Model) HTML(p protocol.Pin) (string, error) {
	return markdown.ToHTML(p.Text)
}

// ApplyRemote replaces the list with a pushed snapshot. Mutations from
// other clients arrive here, never as diffs.
func (m *Model) ApplyRemote(pins []protocol.Pin) {
	m.replace(pins)
}

func (m *Model) replace(pins []protocol.Pin) {
	m.mu.Lock()
	m.pins = pins
	m.mu.Unlock()
}
