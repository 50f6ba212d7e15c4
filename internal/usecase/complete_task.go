package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for finishing a task by hand.
type CompleteTaskInput struct {
	UserID string
	TaskID string
}

// CompleteTaskOutput contains the completed task and its history entry.
type CompleteTaskOutput struct {
	Task  domain.Task
	Entry domain.HistoryEntry
}

// CompleteTask is the use case for marking a task done without waiting
// for its countdown.
type CompleteTask struct {
	store   shared.BoardStore
	history domain.HistoryRepository
	engine  *domain.Engine
	logger  domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(
	store shared.BoardStore,
	history domain.HistoryRepository,
	engine *domain.Engine,
	logger domain.Logger,
) *CompleteTask {
	return &CompleteTask{store: store, history: history, engine: engine, logger: logger}
}

// Execute completes the task and archives it.
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	var done domain.Completion
	_, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		next, c, err := uc.engine.CompleteTask(b, in.TaskID)
		done = c
		return next, err
	})
	if err != nil {
		return nil, err
	}

	if err := shared.Archive(ctx, uc.history, in.UserID, []domain.HistoryEntry{done.Entry}); err != nil {
		return nil, err
	}
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("completed %q", done.Task.Text))
	return &CompleteTaskOutput{Task: done.Task, Entry: done.Entry}, nil
}
