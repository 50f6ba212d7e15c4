package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// ClearTasksInput contains the parameters for clearing the board.
type ClearTasksInput struct {
	UserID string
}

// ClearTasksOutput contains the number of removed tasks.
type ClearTasksOutput struct {
	Removed int
}

// ClearTasks is the use case for deleting every live task.
type ClearTasks struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewClearTasks creates a new ClearTasks use case.
func NewClearTasks(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *ClearTasks {
	return &ClearTasks{store: store, engine: engine, logger: logger}
}

// Execute empties the board. Day state and history are kept.
func (uc *ClearTasks) Execute(ctx context.Context, in ClearTasksInput) (*ClearTasksOutput, error) {
	removed := 0
	_, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		removed = len(b.Tasks)
		return uc.engine.DeleteAll(b), nil
	})
	if err != nil {
		return nil, err
	}
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("cleared %d tasks", removed))
	return &ClearTasksOutput{Removed: removed}, nil
}
