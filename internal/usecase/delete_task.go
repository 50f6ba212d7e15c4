package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	UserID string
	TaskID string
}

// DeleteTaskOutput contains the deleted task.
type DeleteTaskOutput struct {
	Task domain.Task
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *DeleteTask {
	return &DeleteTask{store: store, engine: engine, logger: logger}
}

// Execute removes the task. History is not touched.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	var removed domain.Task
	_, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		t, err := shared.FindTask(b, in.TaskID)
		if err != nil {
			return b, err
		}
		removed = t
		return uc.engine.DeleteTask(b, in.TaskID)
	})
	if err != nil {
		return nil, err
	}
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("deleted %q", removed.Text))
	return &DeleteTaskOutput{Task: removed}, nil
}
