package shared

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/testutil"
)

func seed(store *testutil.MockStore, tasks ...domain.Task) {
	for i := range tasks {
		tasks[i].UserID = "u1"
		tasks[i].Position = i
	}
	store.Tasks = append(store.Tasks, tasks...)
}

func TestLoadBoard(t *testing.T) {
	store := testutil.NewMockStore()
	seed(store, domain.Task{ID: "a"}, domain.Task{ID: "b"})
	store.Days["u1"] = domain.DayState{UserID: "u1", LockedDays: []string{"2024-01-01"}}

	b, err := LoadBoard(context.Background(), store, "u1")
	require.NoError(t, err)
	require.Len(t, b.Tasks, 2)
	assert.Equal(t, "a", b.Tasks[0].ID)
	assert.Equal(t, "u1", b.Day.UserID)
	assert.True(t, b.Day.IsLocked("2024-01-01"))
}

func TestLoadBoard_Errors(t *testing.T) {
	_, err := LoadBoard(context.Background(), testutil.NewMockStore(), "")
	require.ErrorIs(t, err, domain.ErrNotLoggedIn)

	store := testutil.NewMockStore()
	store.ListErr = assert.AnError
	_, err = LoadBoard(context.Background(), store, "u1")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "list tasks")

	store = testutil.NewMockStore()
	store.GetDayErr = assert.AnError
	_, err = LoadBoard(context.Background(), store, "u1")
	assert.Contains(t, err.Error(), "get day state")
}

func TestSaveBoard_Diff(t *testing.T) {
	store := testutil.NewMockStore()
	seed(store, domain.Task{ID: "keep", Text: "k"}, domain.Task{ID: "gone"}, domain.Task{ID: "same"})
	ctx := context.Background()

	before, err := LoadBoard(ctx, store, "u1")
	require.NoError(t, err)

	after := before.Clone()
	after.Tasks = []domain.Task{
		{ID: "new", UserID: "u1", Text: "n"},
		before.Tasks[0],
		before.Tasks[2],
	}
	after.Tasks[1].Text = "changed"
	after.Renumber()

	require.NoError(t, SaveBoard(ctx, store, "u1", before, after))
	assert.Equal(t, 1, store.CreateCalls)
	assert.Equal(t, 1, store.DeleteCalls)
	// only "keep" changed; "same" stays at position 2.
	assert.Equal(t, 1, store.UpdateCalls)
	assert.Zero(t, store.SaveDayCalls)

	got := store.UserTasks("u1")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"new", "keep", "same"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "changed", got[1].Text)
}

func TestSaveBoard_ClearAndDayState(t *testing.T) {
	store := testutil.NewMockStore()
	seed(store, domain.Task{ID: "a"}, domain.Task{ID: "b"})
	ctx := context.Background()

	before, err := LoadBoard(ctx, store, "u1")
	require.NoError(t, err)
	after := before.Clone()
	after.Tasks = nil
	after.Day = after.Day.Lock("2024-01-01")
	after.Day.WindowStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, SaveBoard(ctx, store, "u1", before, after))
	assert.Equal(t, 1, store.DeleteCalls)
	assert.Empty(t, store.UserTasks("u1"))
	assert.Equal(t, 1, store.SaveDayCalls)
	assert.True(t, store.Days["u1"].IsLocked("2024-01-01"))
}

func TestSaveBoard_JoinsErrors(t *testing.T) {
	store := testutil.NewMockStore()
	seed(store, domain.Task{ID: "a"})
	store.CreateErr = assert.AnError
	store.UpdateErr = assert.AnError
	ctx := context.Background()

	before, err := LoadBoard(ctx, store, "u1")
	require.NoError(t, err)
	after := before.Clone()
	after.Tasks = append(after.Tasks, domain.Task{ID: "b", UserID: "u1"})
	after.Tasks[0].Text = "x"

	err = SaveBoard(ctx, store, "u1", before, after)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "create task")
	assert.Contains(t, err.Error(), "update task a")
}

func TestMutate_NoWriteOnError(t *testing.T) {
	store := testutil.NewMockStore()
	seed(store, domain.Task{ID: "a"})

	_, err := Mutate(context.Background(), store, "u1", func(b domain.Board) (domain.Board, error) {
		return b, domain.ErrTaskNotFound
	})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Zero(t, store.CreateCalls+store.UpdateCalls+store.DeleteCalls+store.SaveDayCalls)
}

func TestArchive(t *testing.T) {
	store := testutil.NewMockStore()
	ctx := context.Background()

	require.NoError(t, Archive(ctx, store, "u1", nil))
	require.NoError(t, Archive(ctx, store, "u1", []domain.HistoryEntry{{ID: "h1", TaskID: "a"}}))
	assert.Len(t, store.History, 1)

	store.AppendErr = assert.AnError
	err := Archive(ctx, store, "u1", []domain.HistoryEntry{{ID: "h2", TaskID: "b"}})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestFindTask(t *testing.T) {
	b := domain.Board{Tasks: []domain.Task{{ID: "a"}}}
	got, err := FindTask(b, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = FindTask(b, "zzz")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
