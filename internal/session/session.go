// Package session persists the admin bearer token between runs and
// answers expiry questions about it without contacting the server.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenFile is the saved session on disk.
type TokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Server    string    `json:"server"`
}

// IsExpired reports whether the token expires within margin. A zero
// ExpiresAt means the server issued no expiry and the token never
// counts as expired.
func (t *TokenFile) IsExpired(margin time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().Add(margin).After(t.ExpiresAt)
}

// Store reads and writes the token file under one state directory.
type Store struct {
	dir string
}

func NewStore(stateDir string) *Store {
	return &Store{dir: stateDir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, "token.json")
}

// Save writes the token file, creating the state directory if needed.
// When the file carries no expiry, one is recovered from the token's own
// claims where possible.
func (s *Store) Save(tf *TokenFile) error {
	if tf.ExpiresAt.IsZero() {
		if exp, err := TokenExpiry(tf.Token); err == nil {
			tf.ExpiresAt = exp
		}
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, 0600)
}

// Load reads the saved session. A missing file is an error the caller
// distinguishes with os.IsNotExist.
func (s *Store) Load() (*TokenFile, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, err
	}
	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	return &tf, nil
}

// Delete removes the saved session.
func (s *Store) Delete() error {
	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// TokenExpiry reads the exp claim out of a JWT without verifying the
// signature. Verification is the server's job; the client only wants to
// warn before a dead token is used.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, err
	}
	return exp.Time, nil
}
