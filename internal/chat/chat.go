// Package chat is the AI assistant view-model. The client keeps the
// conversation; the server is stateless and receives the rolling history
// with every message.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/snailsynk/snailsynk-go/internal/markdown"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

// HistoryLimit caps the turns sent to the server. Older turns fall off
// the front; the visible transcript is not truncated.
const HistoryLimit = 20

// ErrBusy is returned when Send is called while a reply is pending.
var ErrBusy = errors.New("chat: a message is already in flight")

// API is the slice of the transport client the chat model needs.
type API interface {
	Chat(ctx context.Context, message string, history []protocol.ChatMessage) (string, error)
}

type Model struct {
	mu       sync.Mutex
	history  []protocol.ChatMessage
	inflight bool

	api      API
	notifier *status.Notifier
}

func NewModel(api API, notifier *status.Notifier) *Model {
	return &Model{api: api, notifier: notifier}
}

// History returns the full visible transcript.
func (m *Model) History() []protocol.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.ChatMessage, len(m.history))
	copy(out, m.history)
	return out
}

// Busy reports whether a reply is pending. Frontends disable input
// while true.
func (m *Model) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight
}

// Send submits a message and blocks until the reply lands. Only one
// message may be in flight.
func (m *Model) Send(ctx context.Context, message string) (string, error) {
	if message == "" {
		return "", nil
	}

	m.mu.Lock()
	if m.inflight {
		m.mu.Unlock()
		return "", ErrBusy
	}
	m.inflight = true
	history := m.rollingLocked()
	m.mu.Unlock()

	reply, err := m.api.Chat(ctx, message, history)

	m.mu.Lock()
	m.inflight = false
	if err == nil {
		m.history = append(m.history,
			protocol.ChatMessage{Role: "user", Parts: []protocol.ChatPart{{Text: message}}},
			protocol.ChatMessage{Role: "model", Parts: []protocol.ChatPart{{Text: reply}}},
		)
	}
	m.mu.Unlock()

	if err != nil {
		if apiErr, ok := transport.AsAPIError(err); ok && apiErr.IsUnavailable() {
			m.notifier.Flash("The assistant is not configured on this server", status.Warning)
		} else {
			m.notifier.Flash("The assistant did not answer", status.Error)
		}
		return "", err
	}
	return reply, nil
}

// Clear wipes the transcript.
func (m *Model) Clear() {
	m.mu.Lock()
	m.history = nil
	m.mu.Unlock()
}

// ReplyHTML renders a model turn as markdown.
func (m *Model) ReplyHTML(msg protocol.ChatMessage) (string, error) {
	var text string
	for _, p := range msg.Parts {
		text += p.Text
	}
	return markdown.ToHTML(text)
}

// rollingLocked returns the last HistoryLimit turns. Caller holds the
// lock.
func (m *Model) rollingLocked() []protocol.ChatMessage {
	if len(m.history) <= HistoryLimit {
		return m.history
	}
	return m.history[len(m.history)-HistoryLimit:]
}
