package admin

import (
	"context"
	"fmt"
	"testing"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

type fakeAPI struct {
	totalLogs  int
	blocked    []string
	blockErr   error
	blockCalls int
	clearCalls int
}

func (f *fakeAPI) AdminClients(ctx context.Context) ([]protocol.ClientInfo, error) {
	return []protocol.ClientInfo{{IP: "10.0.0.1"}}, nil
}

func (f *fakeAPI) AdminBlocklist(ctx context.Context) ([]string, error) {
	return f.blocked, nil
}

func (f *fakeAPI) AdminStats(ctx context.Context) (*protocol.Stats, error) {
	return &protocol.Stats{TotalLogs: f.totalLogs}, nil
}

func (f *fakeAPI) AdminLogs(ctx context.Context, offset, limit int) ([]protocol.LogEntry, bool, error) {
	var page []protocol.LogEntry
	for i := offset; i < offset+limit && i < f.totalLogs; i++ {
		page = append(page, protocol.LogEntry{Action: fmt.Sprintf("action-%d", i)})
	}
	return page, offset+limit < f.totalLogs, nil
}

func (f *fakeAPI) BlockIP(ctx context.Context, ip string) error {
	f.blockCalls++
	if f.blockErr != nil {
		return f.blockErr
	}
	f.blocked = append(f.blocked, ip)
	return nil
}

func (f *fakeAPI) UnblockIP(ctx context.Context, ip string) error {
	kept := f.blocked[:0]
	for _, b := range f.blocked {
		if b != ip {
			kept = append(kept, b)
		}
	}
	f.blocked = kept
	return nil
}

func (f *fakeAPI) ClearLogs(ctx context.Context) error {
	f.clearCalls++
	f.totalLogs = 0
	return nil
}

func newTestModel(api *fakeAPI) (*Model, *dialog.Broker) {
	dialogs := dialog.NewBroker()
	return NewModel(api, dialogs, status.NewNotifier()), dialogs
}

func TestLogPaging(t *testing.T) {
	api := &fakeAPI{totalLogs: 120}
	m, _ := newTestModel(api)

	if err := m.ReloadLogs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logs, hasMore := m.Logs()
	if len(logs) != LogPageSize || !hasMore {
		t.Fatalf("expected first page of %d with more, got %d hasMore=%v", LogPageSize, len(logs), hasMore)
	}

	if err := m.LoadMoreLogs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logs, hasMore = m.Logs()
	if len(logs) != 100 || !hasMore {
		t.Fatalf("expected 100 rows with more, got %d hasMore=%v", len(logs), hasMore)
	}
	// Pages append in order, no duplicates at the seam.
	if logs[49].Action != "action-49" || logs[50].Action != "action-50" {
		t.Errorf("bad page seam: %s then %s", logs[49].Action, logs[50].Action)
	}

	if err := m.LoadMoreLogs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logs, hasMore = m.Logs()
	if len(logs) != 120 || hasMore {
		t.Fatalf("expected all 120 rows, got %d hasMore=%v", len(logs), hasMore)
	}

	// Exhausted paging is a no-op.
	if err := m.LoadMoreLogs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs, _ := m.Logs(); len(logs) != 120 {
		t.Errorf("expected stable row count, got %d", len(logs))
	}
}

func TestReloadSnapsBackToFirstPage(t *testing.T) {
	api := &fakeAPI{totalLogs: 120}
	m, _ := newTestModel(api)
	m.ReloadLogs(context.Background())
	m.LoadMoreLogs(context.Background())

	if err := m.ReloadLogs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs, _ := m.Logs(); len(logs) != LogPageSize {
		t.Errorf("expected reload to drop later pages, got %d", len(logs))
	}
}

func TestBlock_RequiresConfirmation(t *testing.T) {
	api := &fakeAPI{}
	m, dialogs := newTestModel(api)

	go func() {
		req := <-dialogs.Requests()
		req.Cancel()
	}()
	if err := m.Block(context.Background(), "10.0.0.9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.blockCalls != 0 {
		t.Error("canceled confirm must not block the IP")
	}

	go func() {
		req := <-dialogs.Requests()
		req.Confirm()
	}()
	if err := m.Block(context.Background(), "10.0.0.9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.blockCalls != 1 {
		t.Errorf("expected 1 block call, got %d", api.blockCalls)
	}
	if got := m.Blocklist(); len(got) != 1 || got[0] != "10.0.0.9" {
		t.Errorf("blocklist not refreshed: %v", got)
	}
}

func TestClearLogs_Confirmed(t *testing.T) {
	api := &fakeAPI{totalLogs: 10}
	m, dialogs := newTestModel(api)
	m.ReloadLogs(context.Background())

	go func() {
		req := <-dialogs.Requests()
		req.Confirm()
	}()
	if err := m.ClearLogs(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.clearCalls != 1 {
		t.Errorf("expected 1 clear call, got %d", api.clearCalls)
	}
	if logs, _ := m.Logs(); len(logs) != 0 {
		t.Errorf("expected empty log after clear, got %d", len(logs))
	}
}

func TestBlock_OwnIPMessageSurfaced(t *testing.T) {
	api := &fakeAPI{blockErr: &transport.APIError{Status: 400, Message: "You cannot block your own IP address."}}
	dialogs := dialog.NewBroker()
	notifier := status.NewNotifier()
	m := NewModel(api, dialogs, notifier)

	go func() {
		req := <-dialogs.Requests()
		req.Confirm()
	}()

	if err := m.Block(context.Background(), "10.0.0.1"); err == nil {
		t.Fatal("expected an error")
	}
	flashes := notifier.Flashes()
	if len(flashes) != 1 || flashes[0].Message != "You cannot block your own IP address." {
		t.Fatalf("unexpected flashes: %+v", flashes)
	}
}
