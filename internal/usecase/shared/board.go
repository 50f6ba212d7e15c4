// Package shared holds helpers used by several use cases.
package shared

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/runoshun/focusday/internal/domain"
)

// BoardStore is the part of the store a board lives in.
type BoardStore interface {
	domain.TaskRepository
	domain.DayStateRepository
}

// LoadBoard reads the user's live tasks and day state.
// It centralizes the common pattern of:
//
//	tasks, err := store.ListTasks(ctx, userID)
//	day, err := store.GetDayState(ctx, userID)
func LoadBoard(ctx context.Context, store BoardStore, userID string) (domain.Board, error) {
	if userID == "" {
		return domain.Board{}, domain.ErrNotLoggedIn
	}
	tasks, err := store.ListTasks(ctx, userID)
	if err != nil {
		return domain.Board{}, fmt.Errorf("list tasks: %w", err)
	}
	day, err := store.GetDayState(ctx, userID)
	if err != nil {
		return domain.Board{}, fmt.Errorf("get day state: %w", err)
	}
	day.UserID = userID
	return domain.Board{Tasks: tasks, Day: day}, nil
}

// SaveBoard writes the difference between before and after. Every change is
// attempted; the returned error joins all failures.
func SaveBoard(ctx context.Context, store BoardStore, userID string, before, after domain.Board) error {
	var errs []error

	prev := make(map[string]domain.Task, len(before.Tasks))
	for _, t := range before.Tasks {
		prev[t.ID] = t
	}
	next := make(map[string]bool, len(after.Tasks))
	for _, t := range after.Tasks {
		next[t.ID] = true
	}

	if len(after.Tasks) == 0 && len(before.Tasks) > 0 {
		if err := store.DeleteAllTasks(ctx, userID); err != nil {
			errs = append(errs, fmt.Errorf("delete all tasks: %w", err))
		}
	} else {
		for _, t := range before.Tasks {
			if next[t.ID] {
				continue
			}
			if err := store.DeleteTask(ctx, userID, t.ID); err != nil {
				errs = append(errs, fmt.Errorf("delete task %s: %w", t.ID, err))
			}
		}
	}

	for _, t := range after.Tasks {
		old, ok := prev[t.ID]
		if !ok {
			if _, err := store.CreateTask(ctx, t); err != nil {
				errs = append(errs, fmt.Errorf("create task: %w", err))
			}
			continue
		}
		patch := domain.DiffTask(&old, &t)
		if patch.IsEmpty() {
			continue
		}
		if _, err := store.UpdateTask(ctx, userID, t.ID, patch); err != nil {
			errs = append(errs, fmt.Errorf("update task %s: %w", t.ID, err))
		}
	}

	if dayChanged(before.Day, after.Day) {
		day := after.Day
		day.UserID = userID
		if err := store.SaveDayState(ctx, day); err != nil {
			errs = append(errs, fmt.Errorf("save day state: %w", err))
		}
	}

	return errors.Join(errs...)
}

func dayChanged(a, b domain.DayState) bool {
	return !a.WindowStart.Equal(b.WindowStart) || !slices.Equal(a.LockedDays, b.LockedDays)
}

// Mutate loads the board, applies fn and saves the result.
// Nothing is written when fn fails.
func Mutate(
	ctx context.Context,
	store BoardStore,
	userID string,
	fn func(domain.Board) (domain.Board, error),
) (domain.Board, error) {
	before, err := LoadBoard(ctx, store, userID)
	if err != nil {
		return domain.Board{}, err
	}
	after, err := fn(before)
	if err != nil {
		return before, err
	}
	if err := SaveBoard(ctx, store, userID, before, after); err != nil {
		return after, err
	}
	return after, nil
}

// Archive appends history entries, doing nothing for an empty slice.
func Archive(ctx context.Context, history domain.HistoryRepository, userID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := history.AppendHistory(ctx, userID, entries); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// FindTask returns the task with id on b.
func FindTask(b domain.Board, id string) (domain.Task, error) {
	idx := b.Find(id)
	if idx < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return b.Tasks[idx], nil
}
