package domain

import (
	"context"
	"time"
)

// TaskRepository persists the live task collection of each user.
// Implementations scope every call by userID; a task owned by someone else
// is reported as ErrTaskNotFound.
type TaskRepository interface {
	// ListTasks returns the user's tasks ordered by Position.
	ListTasks(ctx context.Context, userID string) ([]Task, error)
	// CreateTask stores a new task and returns it as stored.
	CreateTask(ctx context.Context, task Task) (Task, error)
	// UpdateTask applies patch and returns the updated task.
	UpdateTask(ctx context.Context, userID, id string, patch TaskPatch) (Task, error)
	// DeleteTask removes one task. Deleting a missing task is not an error.
	DeleteTask(ctx context.Context, userID, id string) error
	// DeleteAllTasks removes every task of the user.
	DeleteAllTasks(ctx context.Context, userID string) error
}

// UserRepository persists users. Username and email are unique.
type UserRepository interface {
	FindUser(ctx context.Context, lookup UserLookup) (*User, error)
	// CreateUser returns ErrUserExists when the email or username is taken.
	CreateUser(ctx context.Context, user *User) error
}

// HistoryRepository persists archived task copies.
type HistoryRepository interface {
	// AppendHistory stores entries, skipping tasks that already have an
	// entry of the same ArchiveKind.
	AppendHistory(ctx context.Context, userID string, entries []HistoryEntry) error
	// ListHistory returns entries newest completion first.
	ListHistory(ctx context.Context, userID string) ([]HistoryEntry, error)
}

// DayStateRepository persists the day window and Day-Lock Record.
type DayStateRepository interface {
	// GetDayState returns the zero state (with UserID set) when none is stored.
	GetDayState(ctx context.Context, userID string) (DayState, error)
	SaveDayState(ctx context.Context, state DayState) error
}

// Store is the full persistence contract every backend implements.
type Store interface {
	TaskRepository
	UserRepository
	HistoryRepository
	DayStateRepository
	Close() error
}

// StoreMode describes which backend a process ended up on.
type StoreMode string

// Store modes.
const (
	StoreModeRemote   StoreMode = "remote"
	StoreModeFile     StoreMode = "file"
	StoreModeVolatile StoreMode = "memory"
)

// StoreBackend describes the store a process ended up on.
type StoreBackend struct {
	Mode      StoreMode `json:"mode"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path,omitempty"`
	Reachable bool      `json:"reachable"` // remote store answered the startup probe
}

// CredentialVerifier resolves a user from login credentials.
type CredentialVerifier interface {
	// VerifyCredential returns ErrInvalidCredentials for an unknown email or a wrong password.
	VerifyCredential(ctx context.Context, email, password string) (*User, error)
}

// PasswordHasher hashes and checks user credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues and verifies API bearer tokens carrying a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// SessionStore remembers the CLI's logged-in user.
type SessionStore interface {
	LoadSession() (Session, error)
	SaveSession(s Session) error
	ClearSession() error
}

// Session is the logged-in CLI identity.
type Session struct {
	LoggedInAt time.Time `toml:"logged_in_at"`
	UserID     string    `toml:"user_id"`
	Username   string    `toml:"username"`
}

// ConfigLoader loads configuration.
type ConfigLoader interface {
	// Load returns the merged configuration (default < global < local < env).
	Load() (*Config, error)
}

// ConfigManager inspects and initializes config files.
type ConfigManager interface {
	GetGlobalConfigInfo() ConfigInfo
	GetLocalConfigInfo() ConfigInfo
	// InitGlobalConfig writes a template and returns its path. ErrConfigExists if present.
	InitGlobalConfig(cfg *Config) (string, error)
	InitLocalConfig(cfg *Config) (string, error)
}

// Logger writes categorized log lines. userID may be empty for process-level events.
type Logger interface {
	Info(userID, category, msg string)
	Debug(userID, category, msg string)
	Warn(userID, category, msg string)
	Error(userID, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
