package usecase

import (
	"context"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
type EditTaskInput struct {
	Text            *string
	Date            *string
	DurationMinutes *int
	UserID          string
	TaskID          string
}

// EditTaskOutput contains the edited task.
type EditTaskOutput struct {
	Task domain.Task
}

// EditTask is the use case for changing text, date or duration.
type EditTask struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *EditTask {
	return &EditTask{store: store, engine: engine, logger: logger}
}

// Execute edits a task on an unlocked day.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	b, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		return uc.engine.EditTask(b, in.TaskID, domain.EditInput{
			Text:            in.Text,
			Date:            in.Date,
			DurationMinutes: in.DurationMinutes,
		})
	})
	if err != nil {
		return nil, err
	}

	task, err := shared.FindTask(b, in.TaskID)
	if err != nil {
		return nil, err
	}
	logInfo(uc.logger, in.UserID, "task", "edited "+task.ID)
	return &EditTaskOutput{Task: task}, nil
}
