// Package protocol defines the JSON request/response types of the backend API.
package protocol

import "time"

// Envelope is the generic response wrapper used by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ─── Shared text buffer ─────────────────────────────────────────────────────

// TextResponse is returned by GET /api/shared-text.
type TextResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Error   string `json:"error,omitempty"`
}

// TextRequest is the body for POST /api/shared-text.
type TextRequest struct {
	Text string `json:"text"`
}

// TextEvent is the payload of the text_updated push event.
type TextEvent struct {
	Text string `json:"text"`
}

// ─── Pins ───────────────────────────────────────────────────────────────────

// Pin is a saved snapshot of buffer text.
type Pin struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PinRequest is the body for POST /api/pins.
type PinRequest struct {
	Text string `json:"text"`
}

// PinsResponse is returned by pin endpoints; the list is authoritative.
type PinsResponse struct {
	Success bool   `json:"success"`
	Pins    []Pin  `json:"pins"`
	Error   string `json:"error,omitempty"`
}

// PinsEvent is the payload of the pins_updated push event.
type PinsEvent struct {
	Pins []Pin `json:"pins"`
}

// ─── Files and folders ──────────────────────────────────────────────────────

// FileEntry describes one row of a directory listing.
type FileEntry struct {
	Name        string  `json:"name"`
	EncodedName string  `json:"encoded_name"`
	Type        string  `json:"type"` // "file" or "folder"
	IsLocked    bool    `json:"is_locked"`
	MTime       float64 `json:"mtime"`
}

// FileListResponse is returned by GET /api/files/list?path=.
type FileListResponse struct {
	Success        bool        `json:"success"`
	Files          []FileEntry `json:"files"`
	Path           string      `json:"path"`
	IsFolderLocked bool        `json:"is_folder_locked"`
	Error          string      `json:"error,omitempty"`
}

// FileListEvent is the payload of the file_list_updated push event.
// An absent path means the root listing.
type FileListEvent struct {
	Files []FileEntry `json:"files"`
	Path  string      `json:"path"`
}

// FileStatusResponse is returned by GET /api/file/status/{name}.
type FileStatusResponse struct {
	Locked bool `json:"locked"`
}

// PasswordRequest carries the password for lock and locked-download calls.
type PasswordRequest struct {
	Password string `json:"password"`
}

// MoveRequest is the body for POST /api/file/move.
type MoveRequest struct {
	Filename   string `json:"filename"`
	SourcePath string `json:"source_path"`
	DestPath   string `json:"dest_path"`
}

// FolderRequest names a folder inside a parent path (create/delete).
type FolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// FolderLockRequest is the body for POST /api/folder/lock|unlock.
type FolderLockRequest struct {
	Path     string `json:"path"`
	Password string `json:"password"`
}

// FoldersResponse is returned by GET /api/folders/list.
type FoldersResponse struct {
	Success bool     `json:"success"`
	Folders []string `json:"folders"`
	Error   string   `json:"error,omitempty"`
}

// BatchRequest is the body for the batch lock/unlock/delete endpoints.
type BatchRequest struct {
	Filenames []string `json:"filenames"`
	Password  string   `json:"password,omitempty"`
}

// BatchDetails reports per-item outcomes of a batch operation. Only the
// list matching the operation is populated alongside Failed.
type BatchDetails struct {
	Locked   []string `json:"locked,omitempty"`
	Unlocked []string `json:"unlocked,omitempty"`
	Deleted  []string `json:"deleted,omitempty"`
	Failed   []string `json:"failed"`
}

// BatchResponse is returned by the batch endpoints.
type BatchResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Details BatchDetails `json:"details"`
	Error   string       `json:"error,omitempty"`
}

// PreviewResponse is returned by GET /api/preview/{name}. Data is a base64
// data URI for supported images.
type PreviewResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ─── Notes ──────────────────────────────────────────────────────────────────

// NoteNode is one node of the notes tree.
type NoteNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Type     string     `json:"type"` // "file" or "folder"
	Children []NoteNode `json:"children,omitempty"`
}

// NotesTreeResponse is returned by GET /admin/api/notes/tree.
type NotesTreeResponse struct {
	Success bool       `json:"success"`
	Tree    []NoteNode `json:"tree"`
	Error   string     `json:"error,omitempty"`
}

// NoteContentResponse is returned by GET /admin/api/notes/note.
type NoteContentResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// NoteSaveRequest is the body for POST /admin/api/notes/note.
type NoteSaveRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ItemCreateRequest is the body for POST /admin/api/notes/item.
type ItemCreateRequest struct {
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "folder"
}

// ItemRenameRequest is the body for PUT /admin/api/notes/item.
type ItemRenameRequest struct {
	OldPath string `json:"old_path"`
	NewName string `json:"new_name"`
}

// ItemDeleteRequest is the body for DELETE /admin/api/notes/item.
type ItemDeleteRequest struct {
	Path string `json:"path"`
}

// NoteMoveRequest is the body for POST /admin/api/notes/move.
type NoteMoveRequest struct {
	SourcePath string `json:"source_path"`
	DestPath   string `json:"dest_path"`
}

// NotesDeleteBatchRequest is the body for DELETE /admin/api/notes/delete_batch.
type NotesDeleteBatchRequest struct {
	Paths []string `json:"paths"`
}

// NoteItemResult is a per-path outcome of a notes batch delete.
type NoteItemResult struct {
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NotesDeleteBatchResponse is returned by DELETE /admin/api/notes/delete_batch.
type NotesDeleteBatchResponse struct {
	Success bool             `json:"success"`
	Results []NoteItemResult `json:"results"`
	Error   string           `json:"error,omitempty"`
}

// ─── AI chat ────────────────────────────────────────────────────────────────

// ChatPart is one text fragment of a chat message.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatMessage is one turn of the rolling chat history.
type ChatMessage struct {
	Role  string     `json:"role"` // "user" or "model"
	Parts []ChatPart `json:"parts"`
}

// ChatRequest is the body for POST /api/ai-chat.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

// ChatResponse is returned by POST /api/ai-chat.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ─── Admin ──────────────────────────────────────────────────────────────────

// ClientInfo describes one connected client.
type ClientInfo struct {
	IP             string `json:"ip"`
	ConnectedSince string `json:"connected_since"`
}

// ClientsResponse is returned by GET /admin/api/clients.
type ClientsResponse struct {
	Success bool         `json:"success"`
	Clients []ClientInfo `json:"clients"`
	Error   string       `json:"error,omitempty"`
}

// BlocklistResponse is returned by GET /admin/api/blocklist.
type BlocklistResponse struct {
	Success    bool     `json:"success"`
	BlockedIPs []string `json:"blocked_ips"`
	Error      string   `json:"error,omitempty"`
}

// BlockRequest is the body for POST /admin/api/block_ip|unblock_ip.
type BlockRequest struct {
	IP string `json:"ip"`
}

// Stats is the dashboard counters block.
type Stats struct {
	TotalLogs      int `json:"total_logs"`
	UniqueIPs      int `json:"unique_ips"`
	RecentActivity int `json:"recent_activity"`
}

// StatsResponse is returned by GET /admin/api/stats.
type StatsResponse struct {
	Success bool   `json:"success"`
	Stats   Stats  `json:"stats"`
	Error   string `json:"error,omitempty"`
}

// LogEntry is one action-log record.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	IPAddress string         `json:"ip_address"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
}

// LogsResponse is returned by GET /admin/api/logs.
type LogsResponse struct {
	Success bool       `json:"success"`
	Logs    []LogEntry `json:"logs"`
	HasMore bool       `json:"has_more"`
	Error   string     `json:"error,omitempty"`
}

// ─── Auth ───────────────────────────────────────────────────────────────────

// LoginRequest is the body for POST /admin/api/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is returned by POST /admin/api/login.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Error     string    `json:"error,omitempty"`
}

// ─── QR codes ───────────────────────────────────────────────────────────────

// QRRequest is the body for POST /api/qr_code. Type is one of "ip" or
// "wifi"; SSID and Password only apply to wifi codes.
type QRRequest struct {
	Type     string `json:"type"`
	Color    string `json:"color,omitempty"`
	SSID     string `json:"ssid,omitempty"`
	Password string `json:"password,omitempty"`
}

// QRResponse carries the rendered SVG.
type QRResponse struct {
	Success bool   `json:"success"`
	SVG     string `json:"svg"`
	Error   string `json:"error,omitempty"`
}
