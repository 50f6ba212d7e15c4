package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/storetest"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Info(_, _, _ string)  {}
func (l *recordingLogger) Debug(_, _, _ string) {}
func (l *recordingLogger) Error(_, _, _ string) {}
func (l *recordingLogger) Warn(_, _, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func TestStore_Contract_File(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return New(filepath.Join(t.TempDir(), "db.json"), nil)
	})
}

func TestStore_Contract_Volatile(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return NewVolatile(nil)
	})
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "db.json")

	first := New(path, nil)
	_, err := first.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1", Text: "persist me", Duration: 60, Remaining: 60})
	require.NoError(t, err)
	require.NoError(t, first.CreateUser(ctx, &domain.User{ID: "u1", Username: "u", Email: "u@example.com", PasswordHash: "h"}))

	second := New(path, nil)
	tasks, err := second.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persist me", tasks[0].Text)

	u, err := second.FindUser(ctx, domain.UserLookup{Email: "u@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "h", u.PasswordHash, "hash survives the JSON round trip")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestStore_ReadNeverFails(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	log := &recordingLogger{}
	s := New(path, log)

	tasks, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	st, err := s.GetDayState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", st.UserID)
	assert.NotEmpty(t, log.warns)
}

func TestStore_WriteFailureFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	// A non-empty directory where the file should be makes the final rename fail.
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o750))

	log := &recordingLogger{}
	s := New(path, log)
	require.False(t, s.Volatile())

	_, err := s.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1", Text: "kept in memory", Duration: 60, Remaining: 60})
	require.NoError(t, err, "write failures degrade silently")
	assert.True(t, s.Volatile())
	assert.NotEmpty(t, log.warns)

	_, err = s.CreateTask(ctx, domain.Task{ID: "t2", UserID: "u1", Text: "second", Duration: 60, Remaining: 60, Position: 1})
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "kept in memory", tasks[0].Text)
}

// blockLock turns the lock file into a directory so flock can never be taken.
func blockLock(t *testing.T, path string) {
	t.Helper()
	lockPath := path + ".lock"
	require.NoError(t, os.RemoveAll(lockPath))
	require.NoError(t, os.MkdirAll(lockPath, 0o750))
}

func TestStore_LockFailureKeepsFileContents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	writer := New(path, nil)
	_, err := writer.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1", Text: "on disk", Duration: 60, Remaining: 60})
	require.NoError(t, err)

	s := New(path, nil)
	blockLock(t, path)

	_, err = s.CreateTask(ctx, domain.Task{ID: "t2", UserID: "u1", Text: "in memory", Duration: 60, Remaining: 60, Position: 1})
	require.NoError(t, err)
	assert.True(t, s.Volatile())

	tasks, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "on disk", tasks[0].Text)
	assert.Equal(t, "in memory", tasks[1].Text)
}

func TestStore_ReadsRefreshMemoryCopy(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	writer := New(path, nil)
	_, err := writer.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1", Text: "seen once", Duration: 60, Remaining: 60})
	require.NoError(t, err)

	s := New(path, &recordingLogger{})
	tasks, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// The file becomes unreadable and the lock unusable after the read.
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	blockLock(t, path)

	_, err = s.CreateTask(ctx, domain.Task{ID: "t2", UserID: "u1", Text: "added later", Duration: 60, Remaining: 60, Position: 1})
	require.NoError(t, err)

	tasks, err = s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "seen once", tasks[0].Text)
}

func TestStore_CreateTask_DuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewVolatile(nil)
	_, err := s.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1"})
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1"})
	assert.Error(t, err)
}

func TestStore_DayStateIsCopied(t *testing.T) {
	ctx := context.Background()
	s := NewVolatile(nil)
	locked := []string{"2026-03-09"}
	require.NoError(t, s.SaveDayState(ctx, domain.DayState{UserID: "u1", LockedDays: locked}))
	locked[0] = "mutated"

	st, err := s.GetDayState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-09"}, st.LockedDays)
}
