package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/focusday/internal/domain"
)

// Ensure SessionFile implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFile)(nil)

// SessionFile keeps the CLI session in a small TOML file.
type SessionFile struct {
	path string
}

// NewSessionFile creates a SessionFile at <dataDir>/session.toml.
func NewSessionFile(dataDir string) *SessionFile {
	return &SessionFile{path: filepath.Join(dataDir, domain.SessionFileName)}
}

// Path returns the session file path.
func (f *SessionFile) Path() string {
	return f.path
}

// LoadSession returns ErrNotLoggedIn when no session is stored.
func (f *SessionFile) LoadSession() (domain.Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	var s domain.Session
	if err := toml.Unmarshal(data, &s); err != nil {
		return domain.Session{}, fmt.Errorf("parse session: %w", err)
	}
	if s.UserID == "" {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return s, nil
}

// SaveSession writes s, replacing any previous session.
func (f *SessionFile) SaveSession(s domain.Session) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// ClearSession removes the session file. Clearing an absent session is not an error.
func (f *SessionFile) ClearSession() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
