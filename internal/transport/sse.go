package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/metrics"
)

// SSEStream subscribes to the push channel over Server-Sent Events.
type SSEStream struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewSSEStream creates an SSE push stream.
func NewSSEStream(baseURL, authToken string) *SSEStream {
	return &SSEStream{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 0, // long-lived stream
		},
	}
}

// Subscribe implements PushStream.
func (s *SSEStream) Subscribe(ctx context.Context) (<-chan PushEvent, <-chan error) {
	events := make(chan PushEvent, 100)
	errs := make(chan error, 1)

	go s.subscribeLoop(ctx, events, errs)

	return events, errs
}

func (s *SSEStream) subscribeLoop(ctx context.Context, events chan<- PushEvent, errs chan<- error) {
	defer close(events)
	defer close(errs)

	delays := newReconnectDelays()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := s.connect(ctx, events, delays)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := delays.next()
			logging.Warn("push connection lost",
				zap.Error(err), zap.Duration("reconnect_in", wait))
			metrics.RecordPushReconnect()

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}
}

func (s *SSEStream) connect(ctx context.Context, events chan<- PushEvent, delays *reconnectDelays) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/events", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	logging.Info("push channel connected", zap.String("transport", "sse"))
	delays.reset()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	var eventName string
	var data string

	for scanner.Scan() {
		line := scanner.Text()

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if line == "" {
			if data != "" {
				deliver(events, PushEvent{Name: eventName, Data: json.RawMessage(data)})
			}
			eventName = ""
			data = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue // heartbeat comment
		}
		if after, ok := strings.CutPrefix(line, "event:"); ok {
			eventName = strings.TrimSpace(after)
		} else if after, ok := strings.CutPrefix(line, "data:"); ok {
			data = strings.TrimSpace(after)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return fmt.Errorf("connection closed")
}

// deliver sends an event without blocking; slow consumers lose events
// rather than stalling the stream. The polling fallback covers the gap.
func deliver(events chan<- PushEvent, ev PushEvent) {
	select {
	case events <- ev:
		metrics.RecordPushEvent(ev.Name)
	default:
		logDropped(ev.Name)
	}
}
