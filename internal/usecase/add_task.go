package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// AddTaskInput contains the parameters for adding a standalone task.
type AddTaskInput struct {
	UserID          string
	Text            string
	Date            string        // Defaults to today
	System          domain.System // Defaults to custom
	DurationMinutes int
}

// AddTaskOutput contains the created task.
type AddTaskOutput struct {
	Task domain.Task
}

// AddTask is the use case for adding a standalone task.
type AddTask struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewAddTask creates a new AddTask use case.
func NewAddTask(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *AddTask {
	return &AddTask{store: store, engine: engine, logger: logger}
}

// Execute prepends the task to the board.
func (uc *AddTask) Execute(ctx context.Context, in AddTaskInput) (*AddTaskOutput, error) {
	b, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		return uc.engine.AddSimpleTask(b, domain.SimpleTaskInput{
			Text:            in.Text,
			Date:            in.Date,
			System:          in.System,
			DurationMinutes: in.DurationMinutes,
		})
	})
	if err != nil {
		return nil, err
	}

	task := b.Tasks[0]
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("added %q (%dm) on %s", task.Text, task.Duration/60, task.Date))
	return &AddTaskOutput{Task: task}, nil
}
