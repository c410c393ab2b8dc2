package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/metrics"
)

// WSStream subscribes to the push channel over a WebSocket. The server
// frames each notification as {"event": name, "data": payload}.
type WSStream struct {
	baseURL   string
	authToken string
	dialer    *websocket.Dialer
}

// NewWSStream creates a WebSocket push stream.
func NewWSStream(baseURL, authToken string) *WSStream {
	return &WSStream{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: authToken,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Subscribe implements PushStream.
func (w *WSStream) Subscribe(ctx context.Context) (<-chan PushEvent, <-chan error) {
	events := make(chan PushEvent, 100)
	errs := make(chan error, 1)

	go w.subscribeLoop(ctx, events, errs)

	return events, errs
}

func (w *WSStream) subscribeLoop(ctx context.Context, events chan<- PushEvent, errs chan<- error) {
	defer close(events)
	defer close(errs)

	wsURL, err := w.socketURL()
	if err != nil {
		errs <- err
		return
	}

	delays := newReconnectDelays()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := w.connect(ctx, wsURL, events, delays)
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

func (w *WSStream) socketURL() (string, error) {
	u, err := url.Parse(w.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/api/events/ws"
	return u.String(), nil
}

func (w *WSStream) connect(ctx context.Context, wsURL string, events chan<- PushEvent, delays *reconnectDelays) error {
	header := http.Header{}
	if w.authToken != "" {
		header.Set("Authorization", "Bearer "+w.authToken)
	}

	conn, resp, err := w.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial: %w (status %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	logging.Info("push channel connected", zap.String("transport", "websocket"))
	delays.reset()

	// Close the connection when ctx is canceled so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		mt, p, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if mt != websocket.TextMessage {
			continue
		}

		var frame struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(p, &frame); err != nil {
			logging.Debug("malformed push frame", zap.Error(err))
			continue
		}
		deliver(events, PushEvent{Name: frame.Event, Data: frame.Data})
	}
}
