package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/focusday/internal/domain"
)

func TestView_ListsTasksWithGroups(t *testing.T) {
	m, _, _ := newTestModel(
		domain.Task{ID: "a", Text: "Plan · Focus 1", GroupID: "g", GroupTitle: "Plan", System: domain.SystemShort, Type: domain.IntervalWork, Duration: 1500, Remaining: 1500},
		domain.Task{ID: "b", Text: "Plan · Rest 1", GroupID: "g", GroupTitle: "Plan", System: domain.SystemShort, Type: domain.IntervalRest, Duration: 300, Remaining: 300},
		domain.Task{ID: "c", Text: "email", System: domain.SystemCustom, Duration: 600, Remaining: 0, Completed: true},
	)

	out := m.View()
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "25:00")
	assert.Contains(t, out, "[rest]")
	assert.Contains(t, out, "[custom]")
	assert.Contains(t, out, "✓")
}

func TestView_RunningTaskShowsCountdown(t *testing.T) {
	m, _, _ := newTestModel(domain.Task{ID: "a", Text: "deep work", Duration: 120, Remaining: 61, Running: true})
	out := m.View()
	assert.Contains(t, out, "▶ deep work")
	assert.Contains(t, out, "01:01")
}

func TestView_Empty(t *testing.T) {
	m, _, _ := newTestModel()
	assert.Contains(t, m.View(), "No tasks")
}

func TestReminderText(t *testing.T) {
	assert.Equal(t, "1 task pending today: a", reminderText([]domain.Task{{Text: "a"}}))
	assert.Equal(t, "2 tasks pending today, next up: a", reminderText([]domain.Task{{Text: "a"}, {Text: "b"}}))
}
