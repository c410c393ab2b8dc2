// Package explorer is the file explorer view-model: navigation, listing
// presentation, selection, locking and batch operations. Listings are
// replaced wholesale by server state, never patched locally.
package explorer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/logging"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

// NavState is the navigation lifecycle of the current path.
type NavState string

const (
	NavIdle    NavState = "idle"
	NavLoading NavState = "loading"
	NavLoaded  NavState = "loaded"
	NavErrored NavState = "errored"
)

// API is the slice of the transport client the explorer needs.
type API interface {
	ListFiles(ctx context.Context, path string) (*protocol.FileListResponse, error)
	FileStatus(ctx context.Context, name string) (bool, error)
	MoveFile(ctx context.Context, name, sourcePath, destPath string) error
	LockFile(ctx context.Context, name, password string) error
	UnlockFile(ctx context.Context, name string) error
	DeleteFile(ctx context.Context, name string) error
	Download(ctx context.Context, name string) (io.ReadCloser, error)
	DownloadLocked(ctx context.Context, name, password string) (io.ReadCloser, error)
	DownloadSelected(ctx context.Context, path string, names []string) (io.ReadCloser, error)
	Preview(ctx context.Context, name string) (string, error)
	LockBatch(ctx context.Context, names []string, password string) (*protocol.BatchDetails, error)
	UnlockBatch(ctx context.Context, names []string, password string) (*protocol.BatchDetails, error)
	DeleteBatch(ctx context.Context, names []string) (*protocol.BatchDetails, error)
	CreateFolder(ctx context.Context, path, name string) error
	DeleteFolder(ctx context.Context, path, name string) error
	LockFolder(ctx context.Context, path, password string) error
	UnlockFolder(ctx context.Context, path, password string) error
	ListAllFolders(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, subpath string, files []transport.UploadFile, progress func(sent, total int64)) *transport.UploadHandle
}

type Model struct {
	mu           sync.Mutex
	state        NavState
	path         string
	entries      []protocol.FileEntry
	folderLocked bool
	lastErr      error
	generation   int

	opts      ViewOptions
	Selection *SelectionSet

	dragName string
	dropDest string
	dropSet  bool

	api      API
	dialogs  *dialog.Broker
	notifier *status.Notifier
}

func NewModel(api API, dialogs *dialog.Broker, notifier *status.Notifier) *Model {
	return &Model{
		state:     NavIdle,
		opts:      DefaultViewOptions(),
		Selection: NewSelectionSet(),
		api:       api,
		dialogs:   dialogs,
		notifier:  notifier,
	}
}

// State returns the navigation state and the error from the last failed
// navigation, if any.
func (m *Model) State() (NavState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.lastErr
}

// Path returns the path currently shown (or being loaded).
func (m *Model) Path() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

// FolderLocked reports whether the current folder requires a password.
func (m *Model) FolderLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.folderLocked
}

// ErrBadPath rejects traversal outside the share root.
var ErrBadPath = errors.New("explorer: invalid path")

func normalizePath(path string) (string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", nil
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", ErrBadPath
		}
	}
	return path, nil
}

// Navigate loads a path. A navigation started while another is in
// flight wins: the older response is discarded when it lands.
func (m *Model) Navigate(ctx context.Context, path string) error {
	path, err := normalizePath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	// Moving to another folder drops the selection; only a same-path
	// reload keeps it.
	if path != m.path || m.state == NavIdle {
		m.Selection.Clear()
	}
	m.state = NavLoading
	m.path = path
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	resp, err := m.api.ListFiles(ctx, path)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		logging.Debug("discarding stale listing", zap.String("path", path))
		return nil
	}
	if err != nil {
		m.state = NavErrored
		m.lastErr = err
		return err
	}
	m.state = NavLoaded
	m.lastErr = nil
	m.entries = resp.Files
	m.folderLocked = resp.IsFolderLocked
	m.retainSelectionLocked()
	return nil
}

// Refresh reloads the current path.
func (m *Model) Refresh(ctx context.Context) error {
	return m.Navigate(ctx, m.Path())
}

// ApplyRemote ingests a pushed listing. Events for other paths are
// ignored; only the folder on screen is live.
func (m *Model) ApplyRemote(ev protocol.FileListEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.Path != m.path {
		return
	}
	m.entries = ev.Files
	m.state = NavLoaded
	m.lastErr = nil
	m.retainSelectionLocked()
}

// View returns the entries to render: filtered then sorted per the
// current options.
func (m *Model) View() []protocol.FileEntry {
	m.mu.Lock()
	entries := m.entries
	opts := m.opts
	m.mu.Unlock()
	return ApplyView(entries, opts)
}

// Options returns the current presentation options.
func (m *Model) Options() ViewOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts
}

// SetOptions replaces the presentation options wholesale.
func (m *Model) SetOptions(opts ViewOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
}

// SetSort switches the sort key, or flips the direction when the key is
// unchanged.
func (m *Model) SetSort(key SortKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.opts.Key == key {
		m.opts.Ascending = !m.opts.Ascending
	} else {
		m.opts.Key = key
		m.opts.Ascending = true
	}
}

func (m *Model) SetGrouping(g Grouping) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Grouping = g
}

func (m *Model) SetFilter(filter string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Filter = filter
}

// SelectVisible selects every entry the current view shows.
func (m *Model) SelectVisible() {
	view := m.View()
	names := make([]string, len(view))
	for i, e := range view {
		names[i] = e.Name
	}
	m.mu.Lock()
	m.Selection.SelectAll(names)
	m.mu.Unlock()
}

// Select replaces the selection with the given names.
func (m *Model) Select(names []string) {
	m.mu.Lock()
	m.Selection.SelectAll(names)
	m.mu.Unlock()
}

// ToggleSelect flips one entry's selection.
func (m *Model) ToggleSelect(name string) {
	m.mu.Lock()
	m.Selection.Toggle(name)
	m.mu.Unlock()
}

// ClearSelection empties the selection.
func (m *Model) ClearSelection() {
	m.mu.Lock()
	m.Selection.Clear()
	m.mu.Unlock()
}

// SelectedNames returns the selection in stable order.
func (m *Model) SelectedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Selection.Names()
}

func (m *Model) retainSelectionLocked() {
	present := make([]string, len(m.entries))
	for i, e := range m.entries {
		present[i] = e.Name
	}
	m.Selection.Retain(present)
}
