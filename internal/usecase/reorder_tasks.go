package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// ReorderTasksInput contains the parameters for an AI reordering.
type ReorderTasksInput struct {
	UserID string
	Lang   domain.Language // Detected from the task texts when empty
}

// ReorderTasksOutput contains the board in its new order.
type ReorderTasksOutput struct {
	Message string
	Tasks   []domain.Task
}

// ReorderTasks is the use case for letting the advisor order the board.
type ReorderTasks struct {
	store   shared.BoardStore
	advisor domain.Advisor
	engine  *domain.Engine
	logger  domain.Logger
}

// NewReorderTasks creates a new ReorderTasks use case.
func NewReorderTasks(
	store shared.BoardStore,
	advisor domain.Advisor,
	engine *domain.Engine,
	logger domain.Logger,
) *ReorderTasks {
	return &ReorderTasks{store: store, advisor: advisor, engine: engine, logger: logger}
}

// Execute sends the board positions to the advisor and applies the permutation
// to the same board it sent.
func (uc *ReorderTasks) Execute(ctx context.Context, in ReorderTasksInput) (*ReorderTasksOutput, error) {
	b, err := shared.LoadBoard(ctx, uc.store, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(b.Tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks to reorder", domain.ErrValidation)
	}

	refs := make([]domain.TaskRef, 0, len(b.Tasks))
	texts := make([]string, 0, len(b.Tasks))
	for _, t := range b.Tasks {
		refs = append(refs, domain.TaskRef{ID: t.ID, Text: t.Text})
		texts = append(texts, t.Text)
	}
	lang := in.Lang
	if lang == "" {
		lang = domain.DetectLanguageOf(texts...)
	}

	r, err := uc.advisor.Reorder(ctx, domain.ReorderRequest{Lang: lang, Tasks: refs})
	if err != nil {
		logWarn(uc.logger, in.UserID, "advisor", fmt.Sprintf("reorder: %v", err))
		return nil, err
	}

	after := uc.engine.ApplyAIReorder(b, r.Indices)
	if err := shared.SaveBoard(ctx, uc.store, in.UserID, b, after); err != nil {
		return nil, err
	}
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("reordered %d tasks", len(after.Tasks)))
	return &ReorderTasksOutput{Message: r.Message, Tasks: after.Tasks}, nil
}
