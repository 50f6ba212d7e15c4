package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_IsValid(t *testing.T) {
	for _, s := range AllSystems() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, System("pomodoro").IsValid())
	assert.False(t, System("").IsValid())
}

func TestTask_Progress(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want float64
	}{
		{name: "untouched", task: Task{Duration: 100, Remaining: 100}, want: 0},
		{name: "half", task: Task{Duration: 100, Remaining: 50}, want: 0.5},
		{name: "completed", task: Task{Duration: 100, Remaining: 30, Completed: true}, want: 1},
		{name: "zero duration", task: Task{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.task.Progress(), 0.0001)
		})
	}
}

func TestDiffTask_RoundTrip(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	before := Task{ID: "a", Text: "write", Date: "2024-05-01", Duration: 600, Remaining: 600, Position: 0}
	after := before
	after.Text = "write report"
	after.Remaining = 0
	after.Position = 2
	after.Completed = true
	after.CompletedAt = &at

	patch := DiffTask(&before, &after)
	require.False(t, patch.IsEmpty())
	assert.Nil(t, patch.Date)
	assert.Nil(t, patch.Duration)

	got := before
	patch.Apply(&got)
	assert.Equal(t, after, got)
}

func TestDiffTask_Unchanged(t *testing.T) {
	task := Task{ID: "a", Text: "x", Duration: 60, Remaining: 10}
	assert.True(t, DiffTask(&task, &task).IsEmpty())
}

func TestTaskPatch_CompletedAtWrittenOnce(t *testing.T) {
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)
	task := Task{CompletedAt: &first}

	TaskPatch{CompletedAt: &later}.Apply(&task)
	assert.Equal(t, first, *task.CompletedAt)
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2024-02-29"))
	assert.ErrorIs(t, ValidateDate("2024-13-01"), ErrInvalidDate)
	assert.ErrorIs(t, ValidateDate("tomorrow"), ErrInvalidDate)
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{25 * 60, "25:00"},
		{3600 + 61, "1:01:01"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.secs))
	}
}
