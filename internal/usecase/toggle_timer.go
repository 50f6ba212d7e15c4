package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// ToggleTimerInput contains the parameters for starting or pausing a task.
type ToggleTimerInput struct {
	UserID string
	TaskID string
}

// ToggleTimerOutput contains the toggled task.
type ToggleTimerOutput struct {
	Task domain.Task
}

// ToggleTimer is the use case for starting or pausing a countdown.
type ToggleTimer struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewToggleTimer creates a new ToggleTimer use case.
func NewToggleTimer(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *ToggleTimer {
	return &ToggleTimer{store: store, engine: engine, logger: logger}
}

// Execute starts the task (stopping any other) or pauses it if running.
func (uc *ToggleTimer) Execute(ctx context.Context, in ToggleTimerInput) (*ToggleTimerOutput, error) {
	b, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		return uc.engine.ToggleTimer(b, in.TaskID)
	})
	if err != nil {
		return nil, err
	}

	task, err := shared.FindTask(b, in.TaskID)
	if err != nil {
		return nil, err
	}
	state := "paused"
	if task.Running {
		state = "started"
	}
	logInfo(uc.logger, in.UserID, "timer", fmt.Sprintf("%s %q", state, task.Text))
	return &ToggleTimerOutput{Task: task}, nil
}
