// Package admin is the dashboard view-model: connected clients, the IP
// blocklist, usage stats and the paged action log.
package admin

import (
	"context"
	"sync"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

// LogPageSize is how many action-log rows one page fetches.
const LogPageSize = 50

// API is the slice of the transport client the dashboard needs.
type API interface {
	AdminClients(ctx context.Context) ([]protocol.ClientInfo, error)
	AdminBlocklist(ctx context.Context) ([]string, error)
	AdminStats(ctx context.Context) (*protocol.Stats, error)
	AdminLogs(ctx context.Context, offset, limit int) ([]protocol.LogEntry, bool, error)
	BlockIP(ctx context.Context, ip string) error
	UnblockIP(ctx context.Context, ip string) error
	ClearLogs(ctx context.Context) error
}

type Model struct {
	mu        sync.Mutex
	clients   []protocol.ClientInfo
	blocklist []string
	stats     protocol.Stats
	logs      []protocol.LogEntry
	hasMore   bool

	api      API
	dialogs  *dialog.Broker
	notifier *status.Notifier
}

func NewModel(api API, dialogs *dialog.Broker, notifier *status.Notifier) *Model {
	return &Model{api: api, dialogs: dialogs, notifier: notifier}
}

// Refresh reloads every panel. Used for the initial render and as the
// poll fallback; individual push events refresh single panels.
func (m *Model) Refresh(ctx context.Context) error {
	if err := m.RefreshClients(ctx); err != nil {
		return err
	}
	if err := m.RefreshBlocklist(ctx); err != nil {
		return err
	}
	if err := m.RefreshStats(ctx); err != nil {
		return err
	}
	return m.ReloadLogs(ctx)
}

func (m *Model) RefreshClients(ctx context.Context) error {
	clients, err := m.api.AdminClients(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.clients = clients
	m.mu.Unlock()
	return nil
}

func (m *Model) RefreshBlocklist(ctx context.Context) error {
	ips, err := m.api.AdminBlocklist(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blocklist = ips
	m.mu.Unlock()
	return nil
}

func (m *Model) RefreshStats(ctx context.Context) error {
	stats, err := m.api.AdminStats(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.stats = *stats
	m.mu.Unlock()
	return nil
}

// ReloadLogs fetches the first page, discarding any later pages already
// loaded. Push log events land here so the view snaps back to the top.
func (m *Model) ReloadLogs(ctx context.Context) error {
	logs, hasMore, err := m.api.AdminLogs(ctx, 0, LogPageSize)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.logs = logs
	m.hasMore = hasMore
	m.mu.Unlock()
	return nil
}

// LoadMoreLogs appends the next page. No-op when the server reported no
// further rows.
func (m *Model) LoadMoreLogs(ctx context.Context) error {
	m.mu.Lock()
	if !m.hasMore {
		m.mu.Unlock()
		return nil
	}
	offset := len(m.logs)
	m.mu.Unlock()

	logs, hasMore, err := m.api.AdminLogs(ctx, offset, LogPageSize)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.logs = append(m.logs, logs...)
	m.hasMore = hasMore
	m.mu.Unlock()
	return nil
}

// Clients returns the connected-clients panel.
func (m *Model) Clients() []protocol.ClientInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.ClientInfo, len(m.clients))
	copy(out, m.clients)
	return out
}

// Blocklist returns the blocked IPs.
func (m *Model) Blocklist() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.blocklist))
	copy(out, m.blocklist)
	return out
}

// Stats returns the usage counters.
func (m *Model) Stats() protocol.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Logs returns the loaded action-log rows and whether more pages exist.
func (m *Model) Logs() ([]protocol.LogEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.LogEntry, len(m.logs))
	copy(out, m.logs)
	return out, m.hasMore
}

// Block adds an IP to the blocklist after confirmation. Blocking kicks
// the client's open connections, hence the confirm.
func (m *Model) Block(ctx context.Context, ip string) error {
	ok, err := m.dialogs.Confirm(ctx, "Block IP", "Block "+ip+" and disconnect it?", true)
	if err != nil || !ok {
		return err
	}
	if err := m.api.BlockIP(ctx, ip); err != nil {
		// The backend rejects blocking your own address with a message
		// worth showing as-is.
		msg := "Failed to block " + ip
		if apiErr, isAPI := transport.AsAPIError(err); isAPI && apiErr.Message != "" {
			msg = apiErr.Message
		}
		m.notifier.Flash(msg, status.Error)
		return err
	}
	m.notifier.Flash(ip+" blocked", status.Success)
	return m.RefreshBlocklist(ctx)
}

// Unblock removes an IP from the blocklist.
func (m *Model) Unblock(ctx context.Context, ip string) error {
	if err := m.api.UnblockIP(ctx, ip); err != nil {
		m.notifier.Flash("Failed to unblock "+ip, status.Error)
		return err
	}
	return m.RefreshBlocklist(ctx)
}

// ClearLogs wipes the action log after confirmation.
func (m *Model) ClearLogs(ctx context.Context) error {
	ok, err := m.dialogs.Confirm(ctx, "Clear logs", "Delete the entire action log?", true)
	if err != nil || !ok {
		return err
	}
	if err := m.api.ClearLogs(ctx); err != nil {
		m.notifier.Flash("Failed to clear logs", status.Error)
		return err
	}
	return m.ReloadLogs(ctx)
}
