package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
)

func TestWSStream_DeliversFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/ws" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer token, got %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"event":"text_updated","data":{"text":"ws hello"}}`))
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := NewWSStream(ts.URL, "tok")
	events, _ := stream.Subscribe(ctx)

	ev := waitEvent(t, events)
	if ev.Name != EventTextUpdated {
		t.Errorf("expected text_updated, got %s", ev.Name)
	}
	if string(ev.Data) != `{"text":"ws hello"}` {
		t.Errorf("unexpected data: %s", ev.Data)
	}
}

func TestNewPushStream_Kinds(t *testing.T) {
	if _, err := NewPushStream("sse", "http://x", ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewPushStream("websocket", "http://x", ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewPushStream("smoke-signals", "http://x", ""); err == nil {
		t.Error("expected error for unknown transport")
	}
}

func TestSocketURLSchemes(t *testing.T) {
	s := NewWSStream("https://share.example.com", "")
	u, err := s.socketURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != "wss://share.example.com/api/events/ws" {
		t.Errorf("unexpected url: %s", u)
	}
}
