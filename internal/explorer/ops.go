package explorer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/snailsynk/snailsynk-go/internal/status"
	"github.com/snailsynk/snailsynk-go/internal/transport"
)

// Lock password-protects one file, prompting for the password. A
// dismissed prompt sends nothing.
func (m *Model) Lock(ctx context.Context, name string) error {
	password, ok, err := m.dialogs.Prompt(ctx, "Lock file", "Set a password for "+name, "Password", true)
	if err != nil || !ok {
		return err
	}
	if password == "" {
		m.notifier.Flash("Password cannot be empty", status.Warning)
		return nil
	}
	if err := m.api.LockFile(ctx, name, password); err != nil {
		m.notifier.Flash("Failed to lock "+name, status.Error)
		return err
	}
	m.notifier.Flash(name+" locked", status.Success)
	return m.Refresh(ctx)
}

// Unlock removes a file's password protection.
func (m *Model) Unlock(ctx context.Context, name string) error {
	if err := m.api.UnlockFile(ctx, name); err != nil {
		m.notifier.Flash("Failed to unlock "+name, status.Error)
		return err
	}
	m.notifier.Flash(name+" unlocked", status.Success)
	return m.Refresh(ctx)
}

// Delete removes one file after confirmation.
func (m *Model) Delete(ctx context.Context, name string) error {
	ok, err := m.dialogs.Confirm(ctx, "Delete file", "Delete "+name+"?", true)
	if err != nil || !ok {
		return err
	}
	if err := m.api.DeleteFile(ctx, name); err != nil {
		m.notifier.Flash("Failed to delete "+name, status.Error)
		return err
	}
	return m.Refresh(ctx)
}

// DownloadEntry opens a file for reading. The lock state is re-checked
// first: another client may have locked the file since the listing was
// rendered, and a locked file needs a password even when the row still
// shows it as open.
func (m *Model) DownloadEntry(ctx context.Context, name string) (io.ReadCloser, error) {
	locked, err := m.api.FileStatus(ctx, name)
	if err != nil {
		return nil, err
	}
	if !locked {
		return m.api.Download(ctx, name)
	}

	password, ok, err := m.dialogs.Prompt(ctx, "Locked file", name+" is locked", "Password", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	rc, err := m.api.DownloadLocked(ctx, name, password)
	if err != nil {
		if apiErr, isAPI := transport.AsAPIError(err); isAPI && apiErr.IsIncorrectPassword() {
			m.notifier.Flash("Incorrect password", status.Error)
		}
		return nil, err
	}
	return rc, nil
}

// PreviewEntry schedules a debounced preview of name. Locked files never
// produce a preview request; hovering one cancels any pending preview
// instead.
func (m *Model) PreviewEntry(ctx context.Context, p *Previewer, name string) {
	m.mu.Lock()
	locked := false
	for _, e := range m.entries {
		if e.Name == name {
			locked = e.IsLocked
			break
		}
	}
	m.mu.Unlock()
	if locked {
		p.Cancel()
		return
	}
	p.Request(ctx, name)
}

// DownloadSelected opens a zip stream of the selected files. The server
// skips locked and missing entries, so the archive always comes back.
func (m *Model) DownloadSelected(ctx context.Context) (io.ReadCloser, error) {
	names := m.SelectedNames()
	if len(names) == 0 {
		return nil, nil
	}
	m.mu.Lock()
	path := m.path
	m.mu.Unlock()
	return m.api.DownloadSelected(ctx, path, names)
}

// LockSelected locks every selected file under one password. The server
// works through the whole batch and reports per-item outcomes; one
// failure never stops the rest.
func (m *Model) LockSelected(ctx context.Context) error {
	names := m.SelectedNames()
	if len(names) == 0 {
		return nil
	}
	password, ok, err := m.dialogs.Prompt(ctx, "Lock files", fmt.Sprintf("Set a password for %d files", len(names)), "Password", true)
	if err != nil || !ok {
		return err
	}
	if password == "" {
		m.notifier.Flash("Password cannot be empty", status.Warning)
		return nil
	}
	details, err := m.api.LockBatch(ctx, names, password)
	if err != nil {
		m.notifier.Flash("Batch lock failed", status.Error)
		return err
	}
	m.flashBatch(len(details.Locked), "locked", details.Failed)
	m.ClearSelection()
	return m.Refresh(ctx)
}

// UnlockSelected unlocks every selected file that matches the password.
func (m *Model) UnlockSelected(ctx context.Context) error {
	names := m.SelectedNames()
	if len(names) == 0 {
		return nil
	}
	password, ok, err := m.dialogs.Prompt(ctx, "Unlock files", fmt.Sprintf("Password for %d files", len(names)), "Password", true)
	if err != nil || !ok {
		return err
	}
	if password == "" {
		m.notifier.Flash("Password cannot be empty", status.Warning)
		return nil
	}
	details, err := m.api.UnlockBatch(ctx, names, password)
	if err != nil {
		m.notifier.Flash("Batch unlock failed", status.Error)
		return err
	}
	m.flashBatch(len(details.Unlocked), "unlocked", details.Failed)
	m.ClearSelection()
	return m.Refresh(ctx)
}

// DeleteSelected deletes the selection after confirmation. Locked files
// are reported back as failures, not errors.
func (m *Model) DeleteSelected(ctx context.Context) error {
	names := m.SelectedNames()
	if len(names) == 0 {
		return nil
	}
	ok, err := m.dialogs.Confirm(ctx, "Delete files", fmt.Sprintf("Delete %d files?", len(names)), true)
	if err != nil || !ok {
		return err
	}
	details, err := m.api.DeleteBatch(ctx, names)
	if err != nil {
		m.notifier.Flash("Batch delete failed", status.Error)
		return err
	}
	m.flashBatch(len(details.Deleted), "deleted", details.Failed)
	m.ClearSelection()
	return m.Refresh(ctx)
}

func (m *Model) flashBatch(done int, verb string, failed []string) {
	msg := fmt.Sprintf("%d %s", done, verb)
	cat := status.Success
	if len(failed) > 0 {
		msg += fmt.Sprintf(", %d failed (%s)", len(failed), strings.Join(failed, ", "))
		cat = status.Warning
	}
	m.notifier.Flash(msg, cat)
}

// Move relocates a file into another folder after confirmation, then
// reloads the listing the file left.
func (m *Model) Move(ctx context.Context, name, destPath string) error {
	sourcePath := m.Path()
	if destPath == sourcePath {
		return nil
	}
	dest := destPath
	if dest == "" {
		dest = "Home"
	}
	ok, err := m.dialogs.Confirm(ctx, "Move file", fmt.Sprintf("Move %s to %s?", name, dest), false)
	if err != nil || !ok {
		return err
	}
	if err := m.api.MoveFile(ctx, name, sourcePath, destPath); err != nil {
		m.notifier.Flash("Failed to move "+name, status.Error)
		return err
	}
	m.notifier.Flash(name+" moved", status.Success)
	return m.Navigate(ctx, sourcePath)
}

// BeginDrag marks name as the entry being dragged.
func (m *Model) BeginDrag(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dragName = name
	m.dropSet = false
}

// StageDrop records the folder the drag is hovering over.
func (m *Model) StageDrop(destPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dragName == "" {
		return
	}
	m.dropDest = destPath
	m.dropSet = true
}

// Drop completes the staged drag as a Move. Without a staged
// destination it is a no-op, and the drag state is cleared either way.
func (m *Model) Drop(ctx context.Context) error {
	m.mu.Lock()
	name, dest, staged := m.dragName, m.dropDest, m.dropSet
	m.dragName, m.dropDest, m.dropSet = "", "", false
	m.mu.Unlock()
	if name == "" || !staged {
		return nil
	}
	return m.Move(ctx, name, dest)
}

// CancelDrag abandons the drag without moving anything.
func (m *Model) CancelDrag() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dragName, m.dropDest, m.dropSet = "", "", false
}

// CreateFolder makes a folder in the current path.
func (m *Model) CreateFolder(ctx context.Context, name string) error {
	if err := m.api.CreateFolder(ctx, m.Path(), name); err != nil {
		m.notifier.Flash("Failed to create folder", status.Error)
		return err
	}
	return m.Refresh(ctx)
}

// DeleteFolder removes a folder in the current path after confirmation.
func (m *Model) DeleteFolder(ctx context.Context, name string) error {
	ok, err := m.dialogs.Confirm(ctx, "Delete folder", "Delete folder "+name+" and its contents?", true)
	if err != nil || !ok {
		return err
	}
	if err := m.api.DeleteFolder(ctx, m.Path(), name); err != nil {
		m.notifier.Flash("Failed to delete folder", status.Error)
		return err
	}
	return m.Refresh(ctx)
}

// LockFolder password-protects the current folder.
func (m *Model) LockFolder(ctx context.Context) error {
	path := m.Path()
	if path == "" {
		m.notifier.Flash("The root folder cannot be locked", status.Warning)
		return nil
	}
	password, ok, err := m.dialogs.Prompt(ctx, "Lock folder", "Set a password for this folder", "Password", true)
	if err != nil || !ok {
		return err
	}
	if password == "" {
		m.notifier.Flash("Password cannot be empty", status.Warning)
		return nil
	}
	if err := m.api.LockFolder(ctx, path, password); err != nil {
		m.notifier.Flash("Failed to lock folder", status.Error)
		return err
	}
	return m.Refresh(ctx)
}

// UnlockFolder prompts for the folder password and retries navigation on
// success.
func (m *Model) UnlockFolder(ctx context.Context) error {
	password, ok, err := m.dialogs.Prompt(ctx, "Locked folder", "This folder is locked", "Password", true)
	if err != nil || !ok {
		return err
	}
	if password == "" {
		m.notifier.Flash("Password cannot be empty", status.Warning)
		return nil
	}
	if err := m.api.UnlockFolder(ctx, m.Path(), password); err != nil {
		if apiErr, isAPI := transport.AsAPIError(err); isAPI && apiErr.IsIncorrectPassword() {
			m.notifier.Flash("Incorrect password", status.Error)
		} else {
			m.notifier.Flash("Failed to unlock folder", status.Error)
		}
		return err
	}
	return m.Refresh(ctx)
}

// Folders lists every folder path for move targets.
func (m *Model) Folders(ctx context.Context) ([]string, error) {
	return m.api.ListAllFolders(ctx)
}

// Upload streams files to the current path. Progress lands on the
// callback; the returned handle aborts or waits.
func (m *Model) Upload(ctx context.Context, files []transport.UploadFile, progress func(sent, total int64)) *transport.UploadHandle {
	return m.api.Upload(ctx, m.Path(), files, progress)
}
