package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/snailsynk/snailsynk-go/internal/protocol"
)

// Typed wrappers over the backend surface. Filenames are escaped here so
// callers always work with plain names.

// ─── Shared text ────────────────────────────────────────────────────────────

// SharedText fetches the authoritative buffer text.
func (c *Client) SharedText(ctx context.Context) (string, error) {
	var resp protocol.TextResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/shared-text", nil, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// SetSharedText replaces the buffer text.
func (c *Client) SetSharedText(ctx context.Context, text string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/shared-text", protocol.TextRequest{Text: text}, nil)
}

// ─── Pins ───────────────────────────────────────────────────────────────────

// Pins fetches the current pin list.
func (c *Client) Pins(ctx context.Context) ([]protocol.Pin, error) {
	var resp protocol.PinsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/pins", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pins, nil
}

// AddPin pins the given text and returns the authoritative pin list.
func (c *Client) AddPin(ctx context.Context, text string) ([]protocol.Pin, error) {
	var resp protocol.PinsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/pins", protocol.PinRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	return resp.Pins, nil
}

// DeletePin removes one pin by id.
func (c *Client) DeletePin(ctx context.Context, id string) ([]protocol.Pin, error) {
	var resp protocol.PinsResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/api/pins/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pins, nil
}

// ClearPins removes every pin.
func (c *Client) ClearPins(ctx context.Context) ([]protocol.Pin, error) {
	var resp protocol.PinsResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/api/pins/clear", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Pins, nil
}

// ─── Files and folders ──────────────────────────────────────────────────────

// ListFiles fetches the listing for a path ("" = root).
func (c *Client) ListFiles(ctx context.Context, path string) (*protocol.FileListResponse, error) {
	var resp protocol.FileListResponse
	endpoint := "/api/files/list?path=" + url.QueryEscape(path)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FileStatus re-checks the lock state of one file.
func (c *Client) FileStatus(ctx context.Context, name string) (bool, error) {
	var resp protocol.FileStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/file/status/"+url.PathEscape(name), nil, &resp); err != nil {
		return false, err
	}
	return resp.Locked, nil
}

// MoveFile moves a file between folders.
func (c *Client) MoveFile(ctx context.Context, name, sourcePath, destPath string) error {
	req := protocol.MoveRequest{Filename: name, SourcePath: sourcePath, DestPath: destPath}
	return c.doJSON(ctx, http.MethodPost, "/api/file/move", req, nil)
}

// LockFile protects a file with a password.
func (c *Client) LockFile(ctx context.Context, name, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/file/lock/"+url.PathEscape(name),
		protocol.PasswordRequest{Password: password}, nil)
}

// UnlockFile removes a file lock. This is the owning-session unlock: no
// password challenge is involved.
func (c *Client) UnlockFile(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/file/unlock/"+url.PathEscape(name), nil, nil)
}

// DeleteFile removes a single file.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/delete/"+url.PathEscape(name), nil, nil)
}

// Download fetches an unlocked file. The caller owns the reader.
func (c *Client) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	return c.getBinary(ctx, http.MethodGet, "/files/"+url.PathEscape(name), nil)
}

// DownloadLocked fetches a locked file after a password challenge. A wrong
// password comes back as an *APIError with IsIncorrectPassword() == true.
func (c *Client) DownloadLocked(ctx context.Context, name, password string) (io.ReadCloser, error) {
	return c.getBinary(ctx, http.MethodPost, "/api/file/download_locked/"+url.PathEscape(name),
		protocol.PasswordRequest{Password: password})
}

// DownloadSelected fetches a zip of the named files under path. Locked or
// missing files are skipped server-side rather than failing the archive.
func (c *Client) DownloadSelected(ctx context.Context, path string, names []string) (io.ReadCloser, error) {
	q := url.Values{"subpath": {path}}
	for _, n := range names {
		q.Add("selected_files", n)
	}
	return c.getBinary(ctx, http.MethodPost, "/download_selected?"+q.Encode(), nil)
}

// Preview fetches a base64 image preview. Locked files are refused by the
// backend with 403.
func (c *Client) Preview(ctx context.Context, name string) (string, error) {
	var resp protocol.PreviewResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/preview/"+url.PathEscape(name), nil, &resp); err != nil {
		return "", err
	}
	return resp.Data, nil
}

// LockBatch locks the named files with one password. Per-item outcomes are
// in the returned details; the call succeeding means the batch ran, not
// that every item succeeded.
func (c *Client) LockBatch(ctx context.Context, names []string, password string) (*protocol.BatchDetails, error) {
	var resp protocol.BatchResponse
	req := protocol.BatchRequest{Filenames: names, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/files/lock_batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Details, nil
}

// UnlockBatch unlocks the named files, verifying the password per item.
func (c *Client) UnlockBatch(ctx context.Context, names []string, password string) (*protocol.BatchDetails, error) {
	var resp protocol.BatchResponse
	req := protocol.BatchRequest{Filenames: names, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/files/unlock_batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Details, nil
}

// DeleteBatch deletes the named files.
func (c *Client) DeleteBatch(ctx context.Context, names []string) (*protocol.BatchDetails, error) {
	var resp protocol.BatchResponse
	req := protocol.BatchRequest{Filenames: names}
	if err := c.doJSON(ctx, http.MethodDelete, "/api/files/delete_batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Details, nil
}

// CreateFolder creates a folder inside path.
func (c *Client) CreateFolder(ctx context.Context, path, name string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/folder/create", protocol.FolderRequest{Path: path, Name: name}, nil)
}

// DeleteFolder removes a folder inside path.
func (c *Client) DeleteFolder(ctx context.Context, path, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/folder/delete", protocol.FolderRequest{Path: path, Name: name}, nil)
}

// LockFolder protects a folder with a password.
func (c *Client) LockFolder(ctx context.Context, path, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/folder/lock", protocol.FolderLockRequest{Path: path, Password: password}, nil)
}

// UnlockFolder removes a folder lock, verifying the password.
func (c *Client) UnlockFolder(ctx context.Context, path, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/folder/unlock", protocol.FolderLockRequest{Path: path, Password: password}, nil)
}

// ListAllFolders returns every folder path, for move-destination pickers.
func (c *Client) ListAllFolders(ctx context.Context) ([]string, error) {
	var resp protocol.FoldersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/folders/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// ─── Notes ──────────────────────────────────────────────────────────────────

// NotesTree fetches the full notes tree.
func (c *Client) NotesTree(ctx context.Context) ([]protocol.NoteNode, error) {
	var resp protocol.NotesTreeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/api/notes/tree", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tree, nil
}

// NoteContent fetches one note's content.
func (c *Client) NoteContent(ctx context.Context, path string) (string, error) {
	var resp protocol.NoteContentResponse
	endpoint := "/admin/api/notes/note?path=" + url.QueryEscape(path)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// SaveNote writes a note's content.
func (c *Client) SaveNote(ctx context.Context, path, content string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/api/notes/note",
		protocol.NoteSaveRequest{Path: path, Content: content}, nil)
}

// CreateNoteItem creates a note file or folder at path.
func (c *Client) CreateNoteItem(ctx context.Context, path, itemType string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/api/notes/item",
		protocol.ItemCreateRequest{Path: path, Type: itemType}, nil)
}

// RenameNoteItem renames a note or folder in place.
func (c *Client) RenameNoteItem(ctx context.Context, oldPath, newName string) error {
	return c.doJSON(ctx, http.MethodPut, "/admin/api/notes/item",
		protocol.ItemRenameRequest{OldPath: oldPath, NewName: newName}, nil)
}

// DeleteNoteItem removes a note or folder.
func (c *Client) DeleteNoteItem(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, "/admin/api/notes/item",
		protocol.ItemDeleteRequest{Path: path}, nil)
}

// MoveNoteItem moves a note or folder to another folder.
func (c *Client) MoveNoteItem(ctx context.Context, sourcePath, destPath string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/api/notes/move",
		protocol.NoteMoveRequest{SourcePath: sourcePath, DestPath: destPath}, nil)
}

// DeleteNotesBatch deletes several note paths with per-item outcomes.
func (c *Client) DeleteNotesBatch(ctx context.Context, paths []string) ([]protocol.NoteItemResult, error) {
	var resp protocol.NotesDeleteBatchResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/admin/api/notes/delete_batch",
		protocol.NotesDeleteBatchRequest{Paths: paths}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// QRCode renders a share QR code server-side and returns the SVG.
func (c *Client) QRCode(ctx context.Context, req protocol.QRRequest) (string, error) {
	var resp protocol.QRResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/qr_code", req, &resp); err != nil {
		return "", err
	}
	return resp.SVG, nil
}

// DownloadNotes fetches a zip of the given note paths.
func (c *Client) DownloadNotes(ctx context.Context, paths []string) (io.ReadCloser, error) {
	q := url.Values{}
	for _, p := range paths {
		q.Add("paths", p)
	}
	return c.getBinary(ctx, http.MethodGet, "/admin/api/notes/download?"+q.Encode(), nil)
}

// ─── AI chat ────────────────────────────────────────────────────────────────

// Chat sends one chat turn with the rolling history.
func (c *Client) Chat(ctx context.Context, message string, history []protocol.ChatMessage) (string, error) {
	var resp protocol.ChatResponse
	req := protocol.ChatRequest{Message: message, History: history}
	if err := c.doJSON(ctx, http.MethodPost, "/api/ai-chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// ─── Admin ──────────────────────────────────────────────────────────────────

// AdminClients lists currently connected clients.
func (c *Client) AdminClients(ctx context.Context) ([]protocol.ClientInfo, error) {
	var resp protocol.ClientsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/api/clients", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Clients, nil
}

// AdminBlocklist lists blocked IPs.
func (c *Client) AdminBlocklist(ctx context.Context) ([]string, error) {
	var resp protocol.BlocklistResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/api/blocklist", nil, &resp); err != nil {
		return nil, err
	}
	return resp.BlockedIPs, nil
}

// AdminStats fetches dashboard counters.
func (c *Client) AdminStats(ctx context.Context) (*protocol.Stats, error) {
	var resp protocol.StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/api/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

// AdminLogs fetches one page of the action log.
func (c *Client) AdminLogs(ctx context.Context, offset, limit int) ([]protocol.LogEntry, bool, error) {
	var resp protocol.LogsResponse
	endpoint := "/admin/api/logs?" + url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}.Encode()
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, false, err
	}
	return resp.Logs, resp.HasMore, nil
}

// BlockIP adds an IP to the blocklist.
func (c *Client) BlockIP(ctx context.Context, ip string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/api/block_ip", protocol.BlockRequest{IP: ip}, nil)
}

// UnblockIP removes an IP from the blocklist.
func (c *Client) UnblockIP(ctx context.Context, ip string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/api/unblock_ip", protocol.BlockRequest{IP: ip}, nil)
}

// ClearLogs wipes the action log.
func (c *Client) ClearLogs(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/api/clear_logs", nil, nil)
}

// ─── Auth ───────────────────────────────────────────────────────────────────

// Login exchanges the admin password for a bearer token and installs it
// on the client.
func (c *Client) Login(ctx context.Context, password string) (*protocol.LoginResponse, error) {
	var resp protocol.LoginResponse
	req := protocol.LoginRequest{Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/api/login", req, &resp); err != nil {
		return nil, err
	}
	c.SetAuthToken(resp.Token)
	return &resp, nil
}

// Logout revokes the current token on the server and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/admin/api/logout", nil, nil)
	c.SetAuthToken("")
	return err
}
