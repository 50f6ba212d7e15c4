package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
)

func TestAddTask_Execute_Success(t *testing.T) {
	f := newFixture()
	f.seed(timed("old", "Old", 10))
	uc := NewAddTask(f.store, f.engine, f.logger)

	out, err := uc.Execute(context.Background(), AddTaskInput{
		UserID:          testUser,
		Text:            "  Write report ",
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, "Write report", out.Task.Text)
	assert.Equal(t, 1800, out.Task.Remaining)
	assert.Equal(t, "2024-03-10", out.Task.Date)
	assert.Equal(t, domain.SystemCustom, out.Task.System)

	tasks := f.tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, out.Task.ID, tasks[0].ID)
	assert.Equal(t, "old", tasks[1].ID)
	assert.Equal(t, 1, tasks[1].Position)
	assert.Equal(t, 1, f.logger.Count("info"))
}

func TestAddTask_Execute_LockedDay(t *testing.T) {
	f := newFixture()
	f.store.Days[testUser] = domain.DayState{UserID: testUser, LockedDays: []string{"2024-03-09"}}
	uc := NewAddTask(f.store, f.engine, f.logger)

	_, err := uc.Execute(context.Background(), AddTaskInput{
		UserID:          testUser,
		Text:            "Late",
		Date:            "2024-03-09",
		DurationMinutes: 5,
	})

	var locked *domain.DayLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, "2024-03-09", locked.Date)
	assert.Zero(t, f.store.CreateCalls)
}

func TestAddTask_Execute_NotLoggedIn(t *testing.T) {
	f := newFixture()
	_, err := NewAddTask(f.store, f.engine, nil).Execute(context.Background(), AddTaskInput{Text: "x", DurationMinutes: 1})
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestAddPlan_Execute(t *testing.T) {
	f := newFixture()
	uc := NewAddPlan(f.store, f.engine, f.logger)

	out, err := uc.Execute(context.Background(), AddPlanInput{
		UserID: testUser,
		Text:   "Study",
		Kind:   domain.SystemShort,
		Hours:  2,
	})

	require.NoError(t, err)
	require.Len(t, out.Tasks, 8)
	assert.NotEmpty(t, out.GroupID)
	assert.Equal(t, "Study (Part 1)", out.Tasks[0].Text)
	assert.Equal(t, domain.IntervalWork, out.Tasks[0].Type)
	assert.Equal(t, 25*60, out.Tasks[0].Duration)
	assert.Equal(t, domain.IntervalRest, out.Tasks[1].Type)
	assert.Equal(t, "Study (2h)", out.Tasks[0].GroupTitle)
	assert.Len(t, f.tasks(), 8)
}

func TestAddPlan_Execute_InvalidKind(t *testing.T) {
	f := newFixture()
	_, err := NewAddPlan(f.store, f.engine, f.logger).Execute(context.Background(), AddPlanInput{
		UserID: testUser, Text: "Study", Kind: domain.SystemCustom, Hours: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSystem)
}

func TestToggleTimer_Execute(t *testing.T) {
	f := newFixture()
	f.seed(timed("a", "A", 10), timed("b", "B", 10))
	uc := NewToggleTimer(f.store, f.engine, f.logger)
	ctx := context.Background()

	out, err := uc.Execute(ctx, ToggleTimerInput{UserID: testUser, TaskID: "a"})
	require.NoError(t, err)
	assert.True(t, out.Task.Running)

	_, err = uc.Execute(ctx, ToggleTimerInput{UserID: testUser, TaskID: "b"})
	require.NoError(t, err)
	tasks := f.tasks()
	assert.False(t, tasks[0].Running)
	assert.True(t, tasks[1].Running)

	out, err = uc.Execute(ctx, ToggleTimerInput{UserID: testUser, TaskID: "b"})
	require.NoError(t, err)
	assert.False(t, out.Task.Running)
	assert.True(t, out.Task.Stopped)

	_, err = uc.Execute(ctx, ToggleTimerInput{UserID: testUser, TaskID: "zzz"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCompleteTask_Execute(t *testing.T) {
	f := newFixture()
	task := timed("a", "A", 10)
	task.Remaining = 120
	f.seed(task)
	uc := NewCompleteTask(f.store, f.store, f.engine, f.logger)

	out, err := uc.Execute(context.Background(), CompleteTaskInput{UserID: testUser, TaskID: "a"})
	require.NoError(t, err)
	assert.True(t, out.Task.Completed)
	assert.Equal(t, 600, out.Task.Remaining)
	assert.Equal(t, "a", out.Entry.TaskID)

	require.Len(t, f.store.History, 1)
	assert.Equal(t, testNow, f.store.History[0].CompletedAt)
	assert.True(t, f.tasks()[0].Completed)

	_, err = uc.Execute(context.Background(), CompleteTaskInput{UserID: testUser, TaskID: "a"})
	assert.ErrorIs(t, err, domain.ErrTaskCompleted)
}

func TestCompleteTask_Execute_ArchiveError(t *testing.T) {
	f := newFixture()
	f.seed(timed("a", "A", 10))
	f.store.AppendErr = assert.AnError

	_, err := NewCompleteTask(f.store, f.store, f.engine, nil).Execute(context.Background(), CompleteTaskInput{UserID: testUser, TaskID: "a"})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "append history")
}

func TestEditTask_Execute(t *testing.T) {
	f := newFixture()
	f.seed(timed("a", "A", 10))
	uc := NewEditTask(f.store, f.engine, f.logger)

	out, err := uc.Execute(context.Background(), EditTaskInput{
		UserID:          testUser,
		TaskID:          "a",
		Text:            ptr("Renamed"),
		DurationMinutes: ptr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", out.Task.Text)
	assert.Equal(t, 1200, f.tasks()[0].Remaining)

	_, err = uc.Execute(context.Background(), EditTaskInput{UserID: testUser, TaskID: "a", Date: ptr("10/03/2024")})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestDeleteTask_Execute(t *testing.T) {
	f := newFixture()
	f.seed(timed("a", "A", 10), timed("b", "B", 10))
	uc := NewDeleteTask(f.store, f.engine, f.logger)

	out, err := uc.Execute(context.Background(), DeleteTaskInput{UserID: testUser, TaskID: "a"})
	require.NoError(t, err)
	assert.Equal(t, "A", out.Task.Text)

	tasks := f.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, 0, tasks[0].Position)

	_, err = uc.Execute(context.Background(), DeleteTaskInput{UserID: testUser, TaskID: "a"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTask_Execute_StoreError(t *testing.T) {
	f := newFixture()
	f.seed(timed("a", "A", 10), timed("b", "B", 10))
	f.store.DeleteErr = assert.AnError

	_, err := NewDeleteTask(f.store, f.engine, nil).Execute(context.Background(), DeleteTaskInput{UserID: testUser, TaskID: "a"})
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "delete task a")
}

func TestDeleteGroup_Execute(t *testing.T) {
	f := newFixture()
	g1, g2 := timed("g1", "G1", 5), timed("g2", "G2", 5)
	g1.GroupID, g2.GroupID = "grp", "grp"
	f.seed(g1, timed("solo", "Solo", 5), g2)
	uc := NewDeleteGroup(f.store, f.engine, f.logger)

	out, err := uc.Execute(context.Background(), DeleteGroupInput{UserID: testUser, GroupID: "grp"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Removed)
	tasks := f.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "solo", tasks[0].ID)

	_, err = uc.Execute(context.Background(), DeleteGroupInput{UserID: testUser, GroupID: "grp"})
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestClearTasks_Execute(t *testing.T) {
	f := newFixture()
	f.seed(timed("a", "A", 5), timed("b", "B", 5))
	f.store.Days[testUser] = domain.DayState{UserID: testUser, LockedDays: []string{"2024-03-01"}}

	out, err := NewClearTasks(f.store, f.engine, f.logger).Execute(context.Background(), ClearTasksInput{UserID: testUser})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Removed)
	assert.Empty(t, f.tasks())
	assert.True(t, f.store.Days[testUser].IsLocked("2024-03-01"))
}

func TestListTasks_Execute(t *testing.T) {
	f := newFixture()
	done := timed("done", "Done", 5)
	done.Completed = true
	other := timed("other", "Other", 5)
	other.Date = "2024-03-11"
	running := timed("run", "Run", 5)
	running.Running = true
	f.seed(done, other, running)
	uc := NewListTasks(f.store)

	out, err := uc.Execute(context.Background(), ListTasksInput{UserID: testUser})
	require.NoError(t, err)
	assert.Len(t, out.Tasks, 3)
	require.NotNil(t, out.Running)
	assert.Equal(t, "run", out.Running.ID)

	out, err = uc.Execute(context.Background(), ListTasksInput{UserID: testUser, Date: "2024-03-10", PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "run", out.Tasks[0].ID)
}
