package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runningCount(b Board) int {
	n := 0
	for _, t := range b.Tasks {
		if t.Running {
			n++
		}
	}
	return n
}

func TestEngine_ToggleTimer(t *testing.T) {
	e, _ := newTestEngine(t)
	b := Board{Tasks: []Task{
		{ID: "a", Duration: 60, Remaining: 60},
		{ID: "b", Duration: 60, Remaining: 60, Running: true},
		{ID: "c", Duration: 60, Remaining: 60},
	}}

	b, err := e.ToggleTimer(b, "a")
	require.NoError(t, err)
	assert.True(t, b.Tasks[0].Running)
	assert.False(t, b.Tasks[1].Running)
	assert.Equal(t, 1, runningCount(b))
	assert.False(t, b.Tasks[0].Stopped)

	b, err = e.ToggleTimer(b, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, runningCount(b))
	assert.True(t, b.Tasks[0].Stopped)

	b, err = e.ToggleTimer(b, "a")
	require.NoError(t, err)
	assert.True(t, b.Tasks[0].Running)
	assert.True(t, b.Tasks[0].Stopped, "stopped stays set once paused")
}

func TestEngine_ToggleTimer_AtMostOneRunning(t *testing.T) {
	e, _ := newTestEngine(t)
	// A corrupted prior state with two running tasks still ends with one.
	b := Board{Tasks: []Task{
		{ID: "a", Running: true, Duration: 60, Remaining: 60},
		{ID: "b", Running: true, Duration: 60, Remaining: 60},
		{ID: "c", Duration: 60, Remaining: 60},
	}}
	for _, id := range []string{"c", "a", "b", "b", "c"} {
		var err error
		b, err = e.ToggleTimer(b, id)
		require.NoError(t, err)
		assert.LessOrEqual(t, runningCount(b), 1)
	}
}

func TestEngine_ToggleTimer_Errors(t *testing.T) {
	e, _ := newTestEngine(t)
	b := Board{Tasks: []Task{{ID: "done", Completed: true}}}

	_, err := e.ToggleTimer(b, "missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	got, err := e.ToggleTimer(b, "done")
	assert.ErrorIs(t, err, ErrTaskCompleted)
	assert.Equal(t, b, got)
}

func TestEngine_Tick(t *testing.T) {
	e, _ := newTestEngine(t)
	b := Board{Tasks: []Task{
		{ID: "a", Duration: 60, Remaining: 10, Running: true},
		{ID: "b", Duration: 60, Remaining: 60},
	}}

	got, done := e.Tick(b)
	assert.Empty(t, done)
	assert.Equal(t, 9, got.Tasks[0].Remaining)
	assert.Equal(t, 60, got.Tasks[1].Remaining)
	assert.Equal(t, 10, b.Tasks[0].Remaining, "input board must not change")
}

func TestEngine_Tick_RemainingStaysInRange(t *testing.T) {
	e, _ := newTestEngine(t)
	b := Board{Tasks: []Task{
		{ID: "a", Duration: 3, Remaining: 3, Running: true},
		{ID: "b", Duration: 5, Remaining: 9},
		{ID: "c", Duration: 0, Remaining: 0},
	}}
	for range 10 {
		b, _ = e.Tick(b)
		for _, task := range b.Tasks {
			assert.GreaterOrEqual(t, task.Remaining, 0)
			if task.ID != "b" {
				assert.LessOrEqual(t, task.Remaining, task.Duration)
			}
		}
	}
}

func TestEngine_Tick_CompletionRoundTrip(t *testing.T) {
	e, clock := newTestEngine(t)
	b, err := e.AddSimpleTask(Board{Day: DayState{UserID: "u1"}}, SimpleTaskInput{Text: "focus", DurationMinutes: 1})
	require.NoError(t, err)
	id := b.Tasks[0].ID
	b, err = e.ToggleTimer(b, id)
	require.NoError(t, err)

	var completions []Completion
	for range 60 {
		clock.Advance(time.Second)
		var done []Completion
		b, done = e.Tick(b)
		completions = append(completions, done...)
	}

	task := b.Tasks[0]
	assert.True(t, task.Completed)
	assert.False(t, task.Running)
	assert.Equal(t, task.Duration, task.Remaining)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, clock.Now(), *task.CompletedAt)

	require.Len(t, completions, 1)
	entry := completions[0].Entry
	assert.Equal(t, "focus", entry.Text)
	assert.Equal(t, 60, entry.Duration)
	assert.Equal(t, id, entry.TaskID)
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, clock.Now(), entry.CompletedAt)

	// Further ticks never complete it again.
	b, done := e.Tick(b)
	assert.Empty(t, done)
	assert.True(t, b.Tasks[0].Completed)
}

func TestEngine_CompleteTask(t *testing.T) {
	e, clock := newTestEngine(t)
	b := Board{Tasks: []Task{{ID: "a", Text: "A", Duration: 60, Remaining: 20, Running: true}}}

	got, c, err := e.CompleteTask(b, "a")
	require.NoError(t, err)
	assert.True(t, got.Tasks[0].Completed)
	assert.False(t, got.Tasks[0].Running)
	assert.Equal(t, 60, got.Tasks[0].Remaining)
	assert.Equal(t, clock.Now(), c.Entry.CompletedAt)

	_, _, err = e.CompleteTask(got, "a")
	assert.ErrorIs(t, err, ErrTaskCompleted)
}

func TestEngine_CheckDayRollover(t *testing.T) {
	e, _ := newTestEngine(t)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	doneAt := start.Add(time.Hour)
	b := Board{
		Tasks: []Task{
			{ID: "a", Text: "A", Date: "2026-03-10", Duration: 600, Completed: true, CompletedAt: &doneAt},
			{ID: "b", Text: "B", Date: "2026-03-10", Duration: 300, Completed: true, CompletedAt: &doneAt},
		},
		Day: DayState{UserID: "u1", WindowStart: start},
	}

	t.Run("too early", func(t *testing.T) {
		got, r := e.CheckDayRollover(b, start.Add(11*time.Hour))
		assert.Nil(t, r)
		assert.Equal(t, b, got)
	})

	t.Run("rolls over", func(t *testing.T) {
		now := start.Add(13 * time.Hour)
		got, r := e.CheckDayRollover(b, now)
		require.NotNil(t, r)
		assert.Equal(t, "2026-03-10", r.LockedDay)
		assert.Empty(t, got.Tasks)
		assert.Equal(t, []string{"2026-03-10"}, got.Day.LockedDays)
		assert.Equal(t, now, got.Day.WindowStart)
		require.Len(t, r.Archived, 2)
		for _, entry := range r.Archived {
			assert.Equal(t, now, entry.CompletedAt)
			assert.Equal(t, "2026-03-10", entry.Date)
			assert.Equal(t, ArchiveRollover, entry.Kind)
		}
		assert.Len(t, b.Tasks, 2, "input board must not change")
		assert.Empty(t, b.Day.LockedDays)
	})

	t.Run("idempotent within window", func(t *testing.T) {
		now := start.Add(13 * time.Hour)
		once, r1 := e.CheckDayRollover(b, now)
		require.NotNil(t, r1)
		twice, r2 := e.CheckDayRollover(once, now.Add(time.Minute))
		assert.Nil(t, r2)
		assert.Equal(t, once, twice)
	})

	t.Run("archives only work completed in the window", func(t *testing.T) {
		stale := start.Add(-30 * time.Hour)
		early := start.Add(2 * time.Hour)
		mixed := b.Clone()
		mixed.Tasks = append(mixed.Tasks,
			Task{ID: "old", Date: "2026-03-08", Duration: 60, Completed: true, CompletedAt: &stale},
			Task{ID: "ahead", Date: "2026-03-11", Duration: 60, Completed: true, CompletedAt: &early},
			Task{ID: "undated", Date: "2026-03-09", Duration: 60, Completed: true},
		)

		_, r := e.CheckDayRollover(mixed, start.Add(13*time.Hour))
		require.NotNil(t, r)
		var ids []string
		for _, entry := range r.Archived {
			ids = append(ids, entry.TaskID)
		}
		assert.Equal(t, []string{"a", "b", "ahead"}, ids)
	})

	t.Run("waits for pending work", func(t *testing.T) {
		pending := b.Clone()
		pending.Tasks = append(pending.Tasks, Task{ID: "c", Date: "2026-03-10", Duration: 60, Remaining: 60})
		got, r := e.CheckDayRollover(pending, start.Add(48*time.Hour))
		assert.Nil(t, r)
		assert.Len(t, got.Tasks, 3)
	})

	t.Run("starts a window", func(t *testing.T) {
		now := start.Add(time.Minute)
		got, r := e.CheckDayRollover(Board{}, now)
		assert.Nil(t, r)
		assert.Equal(t, now, got.Day.WindowStart)
	})
}

func TestEngine_Step_RolloverUsesPreTickState(t *testing.T) {
	e, clock := newTestEngine(t)
	b := Board{
		Tasks: []Task{{ID: "a", Text: "A", Date: "2026-03-10", Duration: 1, Remaining: 1, Running: true}},
		Day:   DayState{WindowStart: clock.Now().Add(-13 * time.Hour)},
	}

	res := e.Step(b)
	require.Len(t, res.Completions, 1)
	assert.Nil(t, res.Rollover, "the task was running before this tick")
	require.Len(t, res.Board.Tasks, 1)

	clock.Advance(time.Second)
	res = e.Step(res.Board)
	require.NotNil(t, res.Rollover)
	assert.Empty(t, res.Board.Tasks)
	assert.Len(t, res.Rollover.Archived, 1)
}
