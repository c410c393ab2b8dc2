package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Push event names fanned out by the backend.
const (
	EventTextUpdated     = "text_updated"
	EventPinsUpdated     = "pins_updated"
	EventFileListUpdated = "file_list_updated"
	EventClientUpdate    = "client_update"
	EventBlocklistUpdate = "blocklist_update"
	EventActionLogUpdate = "action_log_update"
)

// PushEvent is one named server-to-client notification. Data is the raw
// JSON payload; consumers decode it into the protocol type for the event.
type PushEvent struct {
	Name string
	Data json.RawMessage
}

// PushStream is the subscription half of the transport adapter. Subscribe
// connects (reconnecting with backoff until ctx is canceled) and delivers
// events in arrival order. The error channel reports only terminal
// conditions; transient connection loss is handled internally.
type PushStream interface {
	Subscribe(ctx context.Context) (<-chan PushEvent, <-chan error)
}

// NewPushStream builds a push stream for the given transport kind.
func NewPushStream(kind, baseURL, authToken string) (PushStream, error) {
	switch kind {
	case "sse":
		return NewSSEStream(baseURL, authToken), nil
	case "websocket":
		return NewWSStream(baseURL, authToken), nil
	default:
		return nil, fmt.Errorf("unknown push transport %q", kind)
	}
}

// reconnectDelays is the shared backoff schedule for both stream kinds.
type reconnectDelays struct {
	min, max time.Duration
	current  time.Duration
}

func newReconnectDelays() *reconnectDelays {
	return &reconnectDelays{min: time.Second, max: 30 * time.Second}
}

// next returns the delay to wait before the next attempt.
func (r *reconnectDelays) next() time.Duration {
	if r.current == 0 {
		r.current = r.min
		return r.current
	}
	r.current *= 2
	if r.current > r.max {
		r.current = r.max
	}
	return r.current
}

// reset restores the initial delay after a healthy connection.
func (r *reconnectDelays) reset() {
	r.current = 0
}
