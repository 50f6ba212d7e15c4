// Package jsonstore provides the local fallback implementation of domain.Store.
// A durable store re-reads and rewrites one JSON file on every operation; a
// volatile store keeps the same data in process memory.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/runoshun/focusday/internal/domain"
)

// storeData represents the JSON file structure.
type storeData struct {
	Days    map[string]domain.DayState `json:"days"`
	Users   []userData                 `json:"users"`
	Tasks   []domain.Task              `json:"tasks"`
	History []domain.HistoryEntry      `json:"history"`
}

// userData is the JSON representation of a user. domain.User hides the hash
// from JSON, so the file keeps it in its own field.
type userData struct {
	CreatedAt    time.Time `json:"createdAt"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
}

func (u userData) toDomain() *domain.User {
	return &domain.User{
		CreatedAt:    u.CreatedAt,
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

func newStoreData() *storeData {
	return &storeData{Days: make(map[string]domain.DayState)}
}

// clone copies data so the in-memory fallback never aliases a caller's value.
func (d *storeData) clone() *storeData {
	out := &storeData{
		Days:    make(map[string]domain.DayState, len(d.Days)),
		Users:   slices.Clone(d.Users),
		Tasks:   slices.Clone(d.Tasks),
		History: slices.Clone(d.History),
	}
	for k, v := range d.Days {
		v.LockedDays = slices.Clone(v.LockedDays)
		out.Days[k] = v
	}
	return out
}

// Store implements domain.Store over a JSON file or process memory.
type Store struct {
	log      domain.Logger
	mem      *storeData
	path     string
	lockPath string
	mu       sync.Mutex
	volatile bool
}

// New creates a durable Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string, log domain.Logger) *Store {
	return &Store{
		log:      log,
		mem:      newStoreData(),
		path:     path,
		lockPath: path + ".lock",
	}
}

// NewVolatile creates a Store that never touches the filesystem.
func NewVolatile(log domain.Logger) *Store {
	return &Store{
		log:      log,
		mem:      newStoreData(),
		volatile: true,
	}
}

// Volatile reports whether the store is (or has fallen back to) memory only.
func (s *Store) Volatile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volatile
}

// Path returns the backing file path, empty for volatile stores.
func (s *Store) Path() string {
	return s.path
}

// ListTasks returns the user's tasks ordered by position.
func (s *Store) ListTasks(_ context.Context, userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	s.view(func(data *storeData) {
		for _, t := range data.Tasks {
			if t.UserID == userID {
				tasks = append(tasks, t)
			}
		}
	})
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Position < tasks[j].Position })
	return tasks, nil
}

// CreateTask stores a new task.
func (s *Store) CreateTask(_ context.Context, task domain.Task) (domain.Task, error) {
	err := s.update(func(data *storeData) error {
		if slices.ContainsFunc(data.Tasks, func(t domain.Task) bool { return t.ID == task.ID }) {
			return fmt.Errorf("create task %s: duplicate id", task.ID)
		}
		data.Tasks = append(data.Tasks, task)
		return nil
	})
	return task, err
}

// UpdateTask applies patch to the user's task.
func (s *Store) UpdateTask(_ context.Context, userID, id string, patch domain.TaskPatch) (domain.Task, error) {
	var updated domain.Task
	err := s.update(func(data *storeData) error {
		idx := slices.IndexFunc(data.Tasks, func(t domain.Task) bool {
			return t.ID == id && t.UserID == userID
		})
		if idx < 0 {
			return domain.ErrTaskNotFound
		}
		patch.Apply(&data.Tasks[idx])
		updated = data.Tasks[idx]
		return nil
	})
	return updated, err
}

// DeleteTask removes one task of the user.
func (s *Store) DeleteTask(_ context.Context, userID, id string) error {
	return s.update(func(data *storeData) error {
		data.Tasks = slices.DeleteFunc(data.Tasks, func(t domain.Task) bool {
			return t.ID == id && t.UserID == userID
		})
		return nil
	})
}

// DeleteAllTasks removes every task of the user.
func (s *Store) DeleteAllTasks(_ context.Context, userID string) error {
	return s.update(func(data *storeData) error {
		data.Tasks = slices.DeleteFunc(data.Tasks, func(t domain.Task) bool {
			return t.UserID == userID
		})
		return nil
	})
}

// FindUser looks a user up by ID, email or username.
func (s *Store) FindUser(_ context.Context, lookup domain.UserLookup) (*domain.User, error) {
	var found *domain.User
	s.view(func(data *storeData) {
		for _, u := range data.Users {
			du := u.toDomain()
			if lookup.Matches(du) {
				found = du
				return
			}
		}
	})
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return found, nil
}

// CreateUser stores a new user, rejecting a taken email or username.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	return s.update(func(data *storeData) error {
		for _, u := range data.Users {
			if u.toDomain().Conflicts(user) {
				return domain.ErrUserExists
			}
		}
		data.Users = append(data.Users, userData{
			CreatedAt:    user.CreatedAt,
			ID:           user.ID,
			Username:     user.Username,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
		})
		return nil
	})
}

// AppendHistory stores entries, skipping tasks already archived with the same kind.
func (s *Store) AppendHistory(_ context.Context, userID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.update(func(data *storeData) error {
		for _, e := range entries {
			e.UserID = userID
			if e.TaskID != "" && slices.ContainsFunc(data.History, func(h domain.HistoryEntry) bool {
				return h.UserID == userID && h.TaskID == e.TaskID && h.ArchivedAs() == e.ArchivedAs()
			}) {
				continue
			}
			data.History = append(data.History, e)
		}
		return nil
	})
}

// ListHistory returns the user's entries, newest completion first.
func (s *Store) ListHistory(_ context.Context, userID string) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	s.view(func(data *storeData) {
		for _, e := range data.History {
			if e.UserID == userID {
				entries = append(entries, e)
			}
		}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedAt.After(entries[j].CompletedAt)
	})
	return entries, nil
}

// GetDayState returns the user's day state.
func (s *Store) GetDayState(_ context.Context, userID string) (domain.DayState, error) {
	state := domain.DayState{UserID: userID}
	s.view(func(data *storeData) {
		if st, ok := data.Days[userID]; ok {
			state = st
			state.LockedDays = slices.Clone(st.LockedDays)
		}
	})
	return state, nil
}

// SaveDayState replaces the user's day state.
func (s *Store) SaveDayState(_ context.Context, state domain.DayState) error {
	return s.update(func(data *storeData) error {
		state.LockedDays = slices.Clone(state.LockedDays)
		data.Days[state.UserID] = state
		return nil
	})
}

// Close is a no-op; the file is not held open between operations.
func (s *Store) Close() error {
	return nil
}

// view runs fn over the current data. Reads never fail: an unreadable file
// falls back to the last in-memory copy. Each successful read refreshes that
// copy. fn must not modify the data.
func (s *Store) view(fn func(*storeData)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.volatile {
		fn(s.mem)
		return
	}

	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		s.warn(fmt.Sprintf("read lock failed, serving memory copy: %v", err))
		fn(s.mem)
		return
	}
	defer s.releaseLock(lock)

	data := s.read()
	s.mem = data
	fn(data)
}

// update runs fn over the current data and persists the result. A failed
// write switches the store to memory for the rest of the process.
func (s *Store) update(fn func(*storeData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.volatile {
		return fn(s.mem)
	}

	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		// Carry the file's contents into memory before leaving it for good.
		s.mem = s.read()
		s.degrade(err)
		return fn(s.mem)
	}
	defer s.releaseLock(lock)

	data := s.read()
	if err := fn(data); err != nil {
		return err
	}
	if err := s.write(data); err != nil {
		s.mem = data
		s.degrade(err)
		return nil
	}
	s.mem = data.clone()
	return nil
}

func (s *Store) degrade(cause error) {
	s.volatile = true
	s.warn(fmt.Sprintf("local store write failed, continuing in memory: %v", cause))
}

func (s *Store) warn(msg string) {
	if s.log != nil {
		s.log.Warn("", "store", msg)
	}
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read loads the file. A missing file is an empty store; an unreadable or
// corrupt one is logged and replaced by the memory copy.
func (s *Store) read() *storeData {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.warn(fmt.Sprintf("read store file: %v", err))
			return s.mem.clone()
		}
		return newStoreData()
	}

	data := newStoreData()
	if err := json.Unmarshal(content, data); err != nil {
		s.warn(fmt.Sprintf("parse store file: %v", err))
		return s.mem.clone()
	}
	if data.Days == nil {
		data.Days = make(map[string]domain.DayState)
	}
	return data
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)
