// Package storetest holds the behaviour every domain.Store backend must share.
// Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) domain.Store

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func task(id, userID string, pos int) domain.Task {
	return domain.Task{
		CreatedAt: base,
		ID:        id,
		UserID:    userID,
		Text:      "task " + id,
		Date:      "2026-03-10",
		System:    domain.SystemCustom,
		Duration:  600,
		Remaining: 600,
		Position:  pos,
	}
}

// Run exercises the full store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("ownership", func(t *testing.T) { testOwnership(t, newStore(t)) })
	t.Run("history", func(t *testing.T) { testHistory(t, newStore(t)) })
	t.Run("history kinds", func(t *testing.T) { testHistoryKinds(t, newStore(t)) })
	t.Run("day state", func(t *testing.T) { testDayState(t, newStore(t)) })
}

func testUsers(t *testing.T, s domain.Store) {
	ctx := context.Background()
	u := &domain.User{CreatedAt: base, ID: "u1", Username: "amira", Email: "Amira@Example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.FindUser(ctx, domain.UserLookup{Email: "amira@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "amira@example.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = s.FindUser(ctx, domain.UserLookup{Username: "amira"})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	got, err = s.FindUser(ctx, domain.UserLookup{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "amira", got.Username)

	_, err = s.FindUser(ctx, domain.UserLookup{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	err = s.CreateUser(ctx, &domain.User{CreatedAt: base, ID: "u2", Username: "other", Email: "AMIRA@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	err = s.CreateUser(ctx, &domain.User{CreatedAt: base, ID: "u3", Username: "amira", Email: "new@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func testTasks(t *testing.T, s domain.Store) {
	ctx := context.Background()

	tasks, err := s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	for i, id := range []string{"b", "a", "c"} {
		_, err := s.CreateTask(ctx, task(id, "u1", i))
		require.NoError(t, err)
	}

	tasks, err = s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	assert.Equal(t, "task b", tasks[0].Text)
	assert.Equal(t, 600, tasks[0].Remaining)
	assert.True(t, base.Equal(tasks[0].CreatedAt))

	remaining, running, pos := 42, true, 5
	updated, err := s.UpdateTask(ctx, "u1", "a", domain.TaskPatch{Remaining: &remaining, Running: &running, Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Remaining)
	assert.True(t, updated.Running)

	done, at := true, base.Add(time.Hour)
	updated, err = s.UpdateTask(ctx, "u1", "a", domain.TaskPatch{Completed: &done, CompletedAt: &at})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, at.Equal(*updated.CompletedAt))

	later := at.Add(time.Hour)
	updated, err = s.UpdateTask(ctx, "u1", "a", domain.TaskPatch{CompletedAt: &later})
	require.NoError(t, err)
	assert.True(t, at.Equal(*updated.CompletedAt), "completedAt is set once")

	_, err = s.UpdateTask(ctx, "u1", "missing", domain.TaskPatch{Running: &running})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	tasks, err = s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a", tasks[2].ID, "ordered by position")

	require.NoError(t, s.DeleteTask(ctx, "u1", "b"))
	tasks, err = s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	require.NoError(t, s.DeleteAllTasks(ctx, "u1"))
	tasks, err = s.ListTasks(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func testOwnership(t *testing.T, s domain.Store) {
	ctx := context.Background()
	_, err := s.CreateTask(ctx, task("mine", "u1", 0))
	require.NoError(t, err)
	_, err = s.CreateTask(ctx, task("theirs", "u2", 0))
	require.NoError(t, err)

	running := true
	_, err = s.UpdateTask(ctx, "u1", "theirs", domain.TaskPatch{Running: &running})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	require.NoError(t, s.DeleteTask(ctx, "u1", "theirs"))
	require.NoError(t, s.DeleteAllTasks(ctx, "u1"))

	tasks, err := s.ListTasks(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "theirs", tasks[0].ID)
	assert.False(t, tasks[0].Running)
}

func testHistory(t *testing.T, s domain.Store) {
	ctx := context.Background()
	entries := []domain.HistoryEntry{
		{ID: "h1", TaskID: "t1", Text: "first", Date: "2026-03-09", System: domain.SystemShort, Duration: 1500, CompletedAt: base.Add(-24 * time.Hour), ArchivedAt: base},
		{ID: "h2", TaskID: "t2", Text: "second", Date: "2026-03-10", System: domain.SystemLong, Duration: 2700, CompletedAt: base, ArchivedAt: base},
	}
	require.NoError(t, s.AppendHistory(ctx, "u1", entries))
	require.NoError(t, s.AppendHistory(ctx, "u1", []domain.HistoryEntry{
		{ID: "h3", TaskID: "t1", Text: "first again", CompletedAt: base.Add(time.Hour), ArchivedAt: base},
	}))
	require.NoError(t, s.AppendHistory(ctx, "u1", nil))

	got, err := s.ListHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2, "one entry per task")
	assert.Equal(t, "h2", got[0].ID)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, domain.SystemLong, got[0].System)
	assert.Equal(t, 2700, got[0].Duration)
	assert.Equal(t, "first", got[1].Text)

	other, err := s.ListHistory(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func testHistoryKinds(t *testing.T, s domain.Store) {
	ctx := context.Background()
	later := base.Add(12 * time.Hour)
	require.NoError(t, s.AppendHistory(ctx, "u1", []domain.HistoryEntry{
		{ID: "done", TaskID: "t1", Text: "write", Date: "2026-03-11", System: domain.SystemShort, Duration: 1500,
			CompletedAt: base, ArchivedAt: base, Kind: domain.ArchiveCompletion},
	}))
	rolled := []domain.HistoryEntry{
		{ID: "rolled", TaskID: "t1", Text: "write", Date: "2026-03-10", System: domain.SystemShort, Duration: 1500,
			CompletedAt: later, ArchivedAt: later, Kind: domain.ArchiveRollover},
	}
	require.NoError(t, s.AppendHistory(ctx, "u1", rolled))
	rolled[0].ID = "rolled-again"
	require.NoError(t, s.AppendHistory(ctx, "u1", rolled))

	got, err := s.ListHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2, "one entry per task and kind")
	assert.Equal(t, "rolled", got[0].ID)
	assert.Equal(t, domain.ArchiveRollover, got[0].ArchivedAs())
	assert.Equal(t, "2026-03-10", got[0].Date)
	assert.Equal(t, "done", got[1].ID)
	assert.Equal(t, domain.ArchiveCompletion, got[1].ArchivedAs())
}

func testDayState(t *testing.T, s domain.Store) {
	ctx := context.Background()

	st, err := s.GetDayState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", st.UserID)
	assert.True(t, st.WindowStart.IsZero())
	assert.Empty(t, st.LockedDays)

	require.NoError(t, s.SaveDayState(ctx, domain.DayState{UserID: "u1", WindowStart: base, LockedDays: []string{"2026-03-08", "2026-03-09"}}))

	st, err = s.GetDayState(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, base.Equal(st.WindowStart))
	assert.Equal(t, []string{"2026-03-08", "2026-03-09"}, st.LockedDays)

	require.NoError(t, s.SaveDayState(ctx, domain.DayState{UserID: "u1", WindowStart: base.Add(time.Hour), LockedDays: []string{"2026-03-08", "2026-03-09", "2026-03-10"}}))
	st, err = s.GetDayState(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, st.LockedDays, 3)
}
