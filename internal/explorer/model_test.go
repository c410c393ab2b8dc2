package explorer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

// fakeAPI records calls and serves canned listings per path.
type fakeAPI struct {
	mu       sync.Mutex
	listings map[string][]protocol.FileEntry
	locked   map[string]bool

	listCalls       []string
	moveCalls       int
	lockFolderCalls int
	batchCalls      int
	lockBatch       *protocol.BatchDetails
	unlockBatch     *protocol.BatchDetails
	deleteBatch     *protocol.BatchDetails
	batchNames      []string

	listErr error
	block   chan struct{} // when set, ListFiles waits on it once
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		listings: map[string][]protocol.FileEntry{},
		locked:   map[string]bool{},
	}
}

func (f *fakeAPI) ListFiles(ctx context.Context, path string) (*protocol.FileListResponse, error) {
	f.mu.Lock()
	block := f.block
	f.block = nil
	f.listCalls = append(f.listCalls, path)
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &protocol.FileListResponse{Success: true, Files: f.listings[path], Path: path}, nil
}

func (f *fakeAPI) FileStatus(ctx context.Context, name string) (bool, error) {
	return f.locked[name], nil
}

func (f *fakeAPI) MoveFile(ctx context.Context, name, sourcePath, destPath string) error {
	f.moveCalls++
	return nil
}

func (f *fakeAPI) LockFile(ctx context.Context, name, password string) error { return nil }
func (f *fakeAPI) UnlockFile(ctx context.Context, name string) error         { return nil }
func (f *fakeAPI) DeleteFile(ctx context.Context, name string) error         { return nil }
func (f *fakeAPI) CreateFolder(ctx context.Context, path, name string) error { return nil }
func (f *fakeAPI) DeleteFolder(ctx context.Context, path, name string) error { return nil }
func (f *fakeAPI) LockFolder(ctx context.Context, path, password string) error {
	f.lockFolderCalls++
	return nil
}
func (f *fakeAPI) UnlockFolder(ctx context.Context, path, password string) error {
	return nil
}
func (f *fakeAPI) ListAllFolders(ctx context.Context) ([]string, error) {
	return []string{"", "docs"}, nil
}

func (f *fakeAPI) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("plain")), nil
}

func (f *fakeAPI) DownloadLocked(ctx context.Context, name, password string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("secret")), nil
}

func (f *fakeAPI) DownloadSelected(ctx context.Context, path string, names []string) (io.ReadCloser, error) {
	f.batchNames = names
	return io.NopCloser(strings.NewReader("PK")), nil
}

func (f *fakeAPI) Preview(ctx context.Context, name string) (string, error) {
	return "data:image/png;base64,xyz", nil
}

func (f *fakeAPI) LockBatch(ctx context.Context, names []string, password string) (*protocol.BatchDetails, error) {
	f.batchCalls++
	f.batchNames = names
	return f.lockBatch, nil
}

func (f *fakeAPI) UnlockBatch(ctx context.Context, names []string, password string) (*protocol.BatchDetails, error) {
	f.batchCalls++
	f.batchNames = names
	return f.unlockBatch, nil
}

func (f *fakeAPI) DeleteBatch(ctx context.Context, names []string) (*protocol.BatchDetails, error) {
	f.batchNames = names
	return f.deleteBatch, nil
}

func (f *fakeAPI) Upload(ctx context.Context, subpath string, files []transport.UploadFile, progress func(sent, total int64)) *transport.UploadHandle {
	return nil
}

func newTestModel(api *fakeAPI) (*Model, *dialog.Broker, *status.Notifier) {
	dialogs := dialog.NewBroker()
	notifier := status.NewNotifier()
	return NewModel(api, dialogs, notifier), dialogs, notifier
}

func TestNavigate_LoadsListing(t *testing.T) {
	api := newFakeAPI()
	api.listings["docs"] = []protocol.FileEntry{{Name: "a.txt", Type: "file"}}
	m, _, _ := newTestModel(api)

	if err := m.Navigate(context.Background(), "docs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, _ := m.State()
	if state != NavLoaded {
		t.Errorf("expected loaded, got %s", state)
	}
	if view := m.View(); len(view) != 1 || view[0].Name != "a.txt" {
		t.Errorf("unexpected view: %+v", view)
	}
}

func TestNavigate_ErrorState(t *testing.T) {
	api := newFakeAPI()
	api.listErr = errors.New("boom")
	m, _, _ := newTestModel(api)

	if err := m.Navigate(context.Background(), "docs"); err == nil {
		t.Fatal("expected error")
	}
	state, lastErr := m.State()
	if state != NavErrored || lastErr == nil {
		t.Errorf("expected errored state, got %s %v", state, lastErr)
	}
}

func TestNavigate_StaleResponseDiscarded(t *testing.T) {
	api := newFakeAPI()
	api.listings["slow"] = []protocol.FileEntry{{Name: "old.txt", Type: "file"}}
	api.listings["fast"] = []protocol.FileEntry{{Name: "new.txt", Type: "file"}}
	m, _, _ := newTestModel(api)

	release := make(chan struct{})
	api.block = release

	done := make(chan error, 1)
	go func() { done <- m.Navigate(context.Background(), "slow") }()

	// Wait until the slow navigation is in flight, then overtake it.
	for {
		api.mu.Lock()
		started := len(api.listCalls) == 1
		api.mu.Unlock()
		if started {
			break
		}
	}
	if err := m.Navigate(context.Background(), "fast"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Path() != "fast" {
		t.Errorf("expected path fast, got %s", m.Path())
	}
	if view := m.View(); len(view) != 1 || view[0].Name != "new.txt" {
		t.Errorf("stale listing leaked into view: %+v", view)
	}
}

func TestApplyRemote_IgnoresOtherPaths(t *testing.T) {
	api := newFakeAPI()
	api.listings["docs"] = []protocol.FileEntry{{Name: "a.txt", Type: "file"}}
	m, _, _ := newTestModel(api)
	m.Navigate(context.Background(), "docs")

	// A push for a folder the user is not looking at must not disturb
	// the current listing.
	m.ApplyRemote(protocol.FileListEvent{
		Path:  "elsewhere",
		Files: []protocol.FileEntry{{Name: "intruder.txt", Type: "file"}},
	})
	if view := m.View(); len(view) != 1 || view[0].Name != "a.txt" {
		t.Errorf("listing disturbed by foreign push: %+v", view)
	}

	m.ApplyRemote(protocol.FileListEvent{
		Path:  "docs",
		Files: []protocol.FileEntry{{Name: "b.txt", Type: "file"}},
	})
	if view := m.View(); len(view) != 1 || view[0].Name != "b.txt" {
		t.Errorf("matching push not applied: %+v", view)
	}
}

func TestSelectionSurvivesRefreshForSurvivors(t *testing.T) {
	api := newFakeAPI()
	api.listings[""] = []protocol.FileEntry{
		{Name: "keep.txt", Type: "file"},
		{Name: "gone.txt", Type: "file"},
	}
	m, _, _ := newTestModel(api)
	m.Navigate(context.Background(), "")

	m.ToggleSelect("keep.txt")
	m.ToggleSelect("gone.txt")

	m.ApplyRemote(protocol.FileListEvent{
		Path:  "",
		Files: []protocol.FileEntry{{Name: "keep.txt", Type: "file"}},
	})

	selected := m.SelectedNames()
	if len(selected) != 1 || selected[0] != "keep.txt" {
		t.Errorf("expected only the surviving name selected, got %v", selected)
	}
}

func TestSetSort_TogglesDirection(t *testing.T) {
	m, _, _ := newTestModel(newFakeAPI())

	m.SetSort(SortByMTime)
	if opts := m.Options(); opts.Key != SortByMTime || !opts.Ascending {
		t.Errorf("expected mtime ascending, got %+v", opts)
	}
	m.SetSort(SortByMTime)
	if m.Options().Ascending {
		t.Error("expected descending after second toggle")
	}
}

func TestNavigate_RejectsTraversal(t *testing.T) {
	api := newFakeAPI()
	m, _, _ := newTestModel(api)

	for _, path := range []string{"..", "../etc", "docs/../secret", "docs//x", "./docs"} {
		if err := m.Navigate(context.Background(), path); !errors.Is(err, ErrBadPath) {
			t.Errorf("Navigate(%q) = %v, want ErrBadPath", path, err)
		}
	}
	if len(api.listCalls) != 0 {
		t.Errorf("rejected paths must not hit the server, got %v", api.listCalls)
	}

	// A leading or trailing slash is tolerated, not rejected.
	if err := m.Navigate(context.Background(), "/docs/"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Path(); got != "docs" {
		t.Errorf("path = %q, want %q", got, "docs")
	}
}

func TestDrag_DropMovesAfterConfirm(t *testing.T) {
	api := newFakeAPI()
	api.listings["docs"] = []protocol.FileEntry{{Name: "a.txt", Type: "file"}}
	m, dialogs, _ := newTestModel(api)
	m.Navigate(context.Background(), "docs")

	go func() {
		req := <-dialogs.Requests()
		req.Confirm()
	}()

	m.BeginDrag("a.txt")
	m.StageDrop("archive")
	if err := m.Drop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.moveCalls != 1 {
		t.Errorf("moveCalls = %d, want 1", api.moveCalls)
	}
}

func TestDrag_CancelAndBareDropAreNoops(t *testing.T) {
	api := newFakeAPI()
	m, _, _ := newTestModel(api)
	m.Navigate(context.Background(), "docs")

	m.BeginDrag("a.txt")
	m.CancelDrag()
	if err := m.Drop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A drop with no staged destination moves nothing.
	m.BeginDrag("a.txt")
	if err := m.Drop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.moveCalls != 0 {
		t.Errorf("moveCalls = %d, want 0", api.moveCalls)
	}
}

func TestNavigate_ClearsSelection(t *testing.T) {
	api := newFakeAPI()
	api.listings[""] = []protocol.FileEntry{{Name: "a.txt", Type: "file"}}
	api.listings["docs"] = []protocol.FileEntry{{Name: "a.txt", Type: "file"}}
	m, _, _ := newTestModel(api)
	m.Navigate(context.Background(), "")
	m.ToggleSelect("a.txt")

	// The destination has a same-named file; it must not inherit the
	// selection.
	if err := m.Navigate(context.Background(), "docs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := m.SelectedNames(); len(names) != 0 {
		t.Errorf("selection after navigation = %v, want empty", names)
	}

	// A same-path reload keeps it.
	m.ToggleSelect("a.txt")
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := m.SelectedNames(); len(names) != 1 {
		t.Errorf("selection after refresh = %v, want [a.txt]", names)
	}
}
