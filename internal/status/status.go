// Package status holds the ephemeral user-facing message state: a flash
// list and an inline status line, both auto-expiring. It is pure state;
// rendering belongs to whatever frontend consumes it.
package status

import (
	"sync"
	"time"

	"github.com/snailsynk/snailsynk-go/internal/metrics"
)

// Category classifies a message for presentation.
type Category string

const (
	Info    Category = "info"
	Success Category = "success"
	Warning Category = "warning"
	Error   Category = "error"
)

// Flash is one dismissible notification.
type Flash struct {
	ID       int
	Message  string
	Category Category
	expires  time.Time
}

// DefaultFlashTTL matches the auto-dismiss delay of the flash list.
const DefaultFlashTTL = 5 * time.Second

// DefaultStatusTTL matches the inline status line's self-clear delay.
const DefaultStatusTTL = 4 * time.Second

// Notifier owns the flash list and the inline status line.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	now    func() time.Time

	flashTTL time.Duration
	flashes  []Flash

	line        string
	lineCat     Category
	lineExpires time.Time

	subscribers map[chan struct{}]struct{}
}

// NewNotifier creates a notifier with the default TTLs.
func NewNotifier() *Notifier {
	return &Notifier{
		now:         time.Now,
		flashTTL:    DefaultFlashTTL,
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// SetClock overrides the time source. Tests only.
func (n *Notifier) SetClock(now func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
}

// Flash appends a notification that expires after the flash TTL.
func (n *Notifier) Flash(message string, cat Category) int {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.flashes = append(n.flashes, Flash{
		ID:       id,
		Message:  message,
		Category: cat,
		expires:  n.now().Add(n.flashTTL),
	})
	count := len(n.alive())
	n.mu.Unlock()

	metrics.SetFlashesActive(count)
	n.notify()
	return id
}

// Dismiss removes a flash before its TTL.
func (n *Notifier) Dismiss(id int) {
	n.mu.Lock()
	for i, f := range n.flashes {
		if f.ID == id {
			n.flashes = append(n.flashes[:i], n.flashes[i+1:]...)
			break
		}
	}
	count := len(n.alive())
	n.mu.Unlock()

	metrics.SetFlashesActive(count)
	n.notify()
}

// Flashes returns the currently visible notifications, newest first.
func (n *Notifier) Flashes() []Flash {
	n.mu.Lock()
	defer n.mu.Unlock()

	live := n.alive()
	out := make([]Flash, len(live))
	for i, f := range live {
		out[len(live)-1-i] = f
	}
	return out
}

// alive drops expired flashes in place and returns the remainder.
// Caller must hold the lock.
func (n *Notifier) alive() []Flash {
	now := n.now()
	kept := n.flashes[:0]
	for _, f := range n.flashes {
		if f.expires.After(now) {
			kept = append(kept, f)
		}
	}
	n.flashes = kept
	return n.flashes
}

// SetStatus replaces the inline status line. It clears itself after ttl
// unless a newer message has replaced it first.
func (n *Notifier) SetStatus(message string, cat Category, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	n.mu.Lock()
	n.line = message
	n.lineCat = cat
	n.lineExpires = n.now().Add(ttl)
	n.mu.Unlock()
	n.notify()
}

// ClearStatus empties the status line immediately.
func (n *Notifier) ClearStatus() {
	n.mu.Lock()
	n.line = ""
	n.mu.Unlock()
	n.notify()
}

// Status returns the current status line, or empty strings once expired.
func (n *Notifier) Status() (string, Category) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.line == "" || !n.lineExpires.After(n.now()) {
		return "", ""
	}
	return n.line, n.lineCat
}

// Subscribe registers a change listener. The channel receives a signal on
// every mutation; slow listeners miss intermediate signals, not state.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.subscribers, ch)
	n.mu.Unlock()
	close(ch)
}

func (n *Notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
