// Package prefs persists per-client presentation preferences (theme,
// accent color, sidebar state, sort order) in a small SQLite database
// under the state directory.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Well-known preference keys.
const (
	KeyTheme            = "theme"
	KeyAccent           = "accent"
	KeySidebarCollapsed = "sidebar_collapsed"
	KeySortKey          = "sort_key"
	KeySortAscending    = "sort_ascending"
	KeyGrouping         = "grouping"
)

// Store is a key/value preference store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the preference database under stateDir.
func Open(ctx context.Context, stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(stateDir, "prefs.sqlite"))
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS prefs (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the stored value, or fallback when the key is unset.
func (s *Store) Get(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a value, replacing any previous one.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// GetBool reads a boolean preference stored as "true"/"false".
func (s *Store) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	def := "false"
	if fallback {
		def = "true"
	}
	v, err := s.Get(ctx, key, def)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetBool stores a boolean preference.
func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return s.Set(ctx, key, v)
}
