// Package notes is the notes editor view-model: the tree of notes, the
// note open in the editor, and the unsaved-changes guard around
// switching notes.
package notes

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/snailsynk/snailsynk-go/internal/dialog"
	"github.com/snailsynk/snailsynk-go/internal/markdown"
	"github.com/snailsynk/snailsynk-go/internal/protocol"
	"github.com/snailsynk/snailsynk-go/internal/status"
)

// API is the slice of the transport client the notes model needs.
type API interface {
	NotesTree(ctx context.Context) ([]protocol.NoteNode, error)
	NoteContent(ctx context.Context, path string) (string, error)
	SaveNote(ctx context.Context, path, content string) error
	CreateNoteItem(ctx context.Context, path, itemType string) error
	RenameNoteItem(ctx context.Context, oldPath, newName string) error
	DeleteNoteItem(ctx context.Context, path string) error
	MoveNoteItem(ctx context.Context, sourcePath, destPath string) error
	DeleteNotesBatch(ctx context.Context, paths []string) ([]protocol.NoteItemResult, error)
	DownloadNotes(ctx context.Context, paths []string) (io.ReadCloser, error)
}

type Model struct {
	mu           sync.Mutex
	tree         []protocol.NoteNode
	folderFilter string
	current      string
	content      string
	dirty        bool

	api      API
	dialogs  *dialog.Broker
	notifier *status.Notifier
}

func NewModel(api API, dialogs *dialog.Broker, notifier *status.Notifier) *Model {
	return &Model{api: api, dialogs: dialogs, notifier: notifier}
}

// RefreshTree reloads the tree. Every level is ordered folders before
// files, each group sorted by name, regardless of server order.
func (m *Model) RefreshTree(ctx context.Context) error {
	tree, err := m.api.NotesTree(ctx)
	if err != nil {
		m.notifier.Flash("Failed to load notes", status.Error)
		return err
	}
	sortTree(tree)
	m.mu.Lock()
	m.tree = tree
	m.mu.Unlock()
	return nil
}

// Tree returns the current tree. With a folder filter set only the
// matching top-level folder's subtree is visible.
func (m *Model) Tree() []protocol.NoteNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.folderFilter == "" {
		return m.tree
	}
	var out []protocol.NoteNode
	for _, n := range m.tree {
		if n.Type == "folder" && n.Name == m.folderFilter {
			out = append(out, n)
		}
	}
	return out
}

// SetFolderFilter limits the tree to one top-level folder. Empty shows
// everything again.
func (m *Model) SetFolderFilter(topLevel string) {
	m.mu.Lock()
	m.folderFilter = topLevel
	m.mu.Unlock()
}

func sortTree(nodes []protocol.NoteNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Type != b.Type {
			return a.Type == "folder"
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for i := range nodes {
		sortTree(nodes[i].Children)
	}
}

// Current returns the open note's path, content and dirty flag.
func (m *Model) Current() (path, content string, dirty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.content, m.dirty
}

// SetContent records an edit to the open note.
func (m *Model) SetContent(content string) {
	m.mu.Lock()
	if m.current != "" {
		m.content = content
		m.dirty = true
	}
	m.mu.Unlock()
}

// guardUnsaved gates leaving a dirty note. Save writes it back first,
// discard drops the edits, cancel keeps the note open and stops the
// caller.
func (m *Model) guardUnsaved(ctx context.Context) (proceed bool, err error) {
	m.mu.Lock()
	dirty, current := m.dirty, m.current
	m.mu.Unlock()

	if !dirty {
		return true, nil
	}
	choice, err := m.dialogs.SaveDiscardCancel(ctx, "Unsaved changes", path.Base(current)+" has unsaved changes")
	if err != nil {
		return false, err
	}
	switch choice {
	case dialog.ChoiceSave:
		if err := m.Save(ctx); err != nil {
			return false, err
		}
		return true, nil
	case dialog.ChoiceDiscard:
		return true, nil
	default:
		return false, nil
	}
}

// Open loads a note into the editor. Unsaved changes in the current
// note go through the save/discard/cancel guard first; cancel keeps the
// current note open and loads nothing.
func (m *Model) Open(ctx context.Context, notePath string) error {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()

	if notePath == current {
		return nil
	}
	if proceed, err := m.guardUnsaved(ctx); err != nil || !proceed {
		return err
	}

	content, err := m.api.NoteContent(ctx, notePath)
	if err != nil {
		m.notifier.Flash("Failed to open note", status.Error)
		return err
	}
	m.mu.Lock()
	m.current = notePath
	m.content = content
	m.dirty = false
	m.mu.Unlock()
	return nil
}

// Save writes the open note back.
func (m *Model) Save(ctx context.Context) error {
	m.mu.Lock()
	current, content := m.current, m.content
	m.mu.Unlock()

	if current == "" {
		return nil
	}
	if err := m.api.SaveNote(ctx, current, content); err != nil {
		m.notifier.Flash("Failed to save note", status.Error)
		return err
	}
	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()
	m.notifier.SetStatus("Note saved", status.Success, 0)
	return nil
}

// Close drops the open note, guarding unsaved changes like Open.
func (m *Model) Close(ctx context.Context) error {
	if proceed, err := m.guardUnsaved(ctx); err != nil || !proceed {
		return err
	}
	m.mu.Lock()
	m.current = ""
	m.content = ""
	m.dirty = false
	m.mu.Unlock()
	return nil
}

// Create makes a note or folder at path, then reloads the tree.
func (m *Model) Create(ctx context.Context, itemPath, itemType string) error {
	if err := m.api.CreateNoteItem(ctx, itemPath, itemType); err != nil {
		m.notifier.Flash("Failed to create "+itemType, status.Error)
		return err
	}
	return m.RefreshTree(ctx)
}

// Rename renames a note or folder, fixing up the open note's path when
// it is inside the renamed subtree.
func (m *Model) Rename(ctx context.Context, oldPath, newName string) error {
	if err := m.api.RenameNoteItem(ctx, oldPath, newName); err != nil {
		m.notifier.Flash("Failed to rename", status.Error)
		return err
	}

	newPath := path.Join(path.Dir(oldPath), newName)
	m.mu.Lock()
	if m.current == oldPath {
		m.current = newPath
	} else if strings.HasPrefix(m.current, oldPath+"/") {
		m.current = newPath + strings.TrimPrefix(m.current, oldPath)
	}
	m.mu.Unlock()
	return m.RefreshTree(ctx)
}

// Delete removes a note or folder after confirmation, closing the
// editor when the open note goes with it.
func (m *Model) Delete(ctx context.Context, itemPath string) error {
	ok, err := m.dialogs.Confirm(ctx, "Delete", "Delete "+path.Base(itemPath)+"?", true)
	if err != nil || !ok {
		return err
	}
	if err := m.api.DeleteNoteItem(ctx, itemPath); err != nil {
		m.notifier.Flash("Failed to delete", status.Error)
		return err
	}
	m.dropIfCurrent(itemPath)
	return m.RefreshTree(ctx)
}

// DeleteBatch removes several items, reporting per-item outcomes. The
// server keeps going past failures.
func (m *Model) DeleteBatch(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	ok, err := m.dialogs.Confirm(ctx, "Delete items", fmt.Sprintf("Delete %d items?", len(paths)), true)
	if err != nil || !ok {
		return err
	}
	results, err := m.api.DeleteNotesBatch(ctx, paths)
	if err != nil {
		m.notifier.Flash("Batch delete failed", status.Error)
		return err
	}
	deleted, failed := 0, 0
	for _, r := range results {
		if r.Success {
			deleted++
			m.dropIfCurrent(r.Path)
		} else {
			failed++
		}
	}
	if failed > 0 {
		m.notifier.Flash(fmt.Sprintf("%d deleted, %d failed", deleted, failed), status.Warning)
	} else {
		m.notifier.Flash(fmt.Sprintf("%d deleted", deleted), status.Success)
	}
	return m.RefreshTree(ctx)
}

// Move relocates an item into another folder.
func (m *Model) Move(ctx context.Context, sourcePath, destPath string) error {
	if err := m.api.MoveNoteItem(ctx, sourcePath, destPath); err != nil {
		m.notifier.Flash("Failed to move", status.Error)
		return err
	}
	newPath := path.Join(destPath, path.Base(sourcePath))
	m.mu.Lock()
	if m.current == sourcePath {
		m.current = newPath
	} else if strings.HasPrefix(m.current, sourcePath+"/") {
		m.current = newPath + strings.TrimPrefix(m.current, sourcePath)
	}
	m.mu.Unlock()
	return m.RefreshTree(ctx)
}

// Duplicate copies a note next to itself. The copy happens in two
// steps, create then save; if the save fails the empty copy stays
// behind and the flash says so.
func (m *Model) Duplicate(ctx context.Context, notePath string) error {
	content, err := m.api.NoteContent(ctx, notePath)
	if err != nil {
		m.notifier.Flash("Failed to read note", status.Error)
		return err
	}

	ext := path.Ext(notePath)
	copyPath := strings.TrimSuffix(notePath, ext) + " (copy)" + ext
	if err := m.api.CreateNoteItem(ctx, copyPath, "file"); err != nil {
		m.notifier.Flash("Failed to duplicate note", status.Error)
		return err
	}
	if err := m.api.SaveNote(ctx, copyPath, content); err != nil {
		m.notifier.Flash("Copy created but its content could not be written", status.Warning)
		return err
	}
	return m.RefreshTree(ctx)
}

// Download zips the given items server-side and returns the archive.
func (m *Model) Download(ctx context.Context, paths []string) (io.ReadCloser, error) {
	return m.api.DownloadNotes(ctx, paths)
}

// ExportHTML renders the open note as HTML.
func (m *Model) ExportHTML() (string, error) {
	m.mu.Lock()
	content := m.content
	m.mu.Unlock()
	return markdown.ToHTML(content)
}

func (m *Model) dropIfCurrent(itemPath string) {
	m.mu.Lock()
	if m.current == itemPath || strings.HasPrefix(m.current, itemPath+"/") {
		m.current = ""
		m.content = ""
		m.dirty = false
	}
	m.mu.Unlock()
}
