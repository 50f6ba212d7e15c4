package usecase

import (
	"context"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	UserID      string
	Date        string // Only tasks on this date (empty = all)
	PendingOnly bool
}

// ListTasksOutput contains the tasks in board order and the day state.
type ListTasksOutput struct {
	Running *domain.Task
	Tasks   []domain.Task
	Day     domain.DayState
}

// ListTasks is the use case for reading the live collection.
type ListTasks struct {
	store shared.BoardStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store shared.BoardStore) *ListTasks {
	return &ListTasks{store: store}
}

// Execute returns the filtered tasks.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	b, err := shared.LoadBoard(ctx, uc.store, in.UserID)
	if err != nil {
		return nil, err
	}

	out := &ListTasksOutput{Day: b.Day, Tasks: make([]domain.Task, 0, len(b.Tasks))}
	for _, t := range b.Tasks {
		if in.Date != "" && t.Date != in.Date {
			continue
		}
		if in.PendingOnly && t.Completed {
			continue
		}
		out.Tasks = append(out.Tasks, t)
	}
	if r, ok := b.Running(); ok {
		out.Running = &r
	}
	return out, nil
}
