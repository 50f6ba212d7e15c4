package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// SplitTaskInput contains the parameters for an AI decomposition.
type SplitTaskInput struct {
	UserID string
	Text   string
	Date   string          // Defaults to today
	Lang   domain.Language // Detected from Text when empty
}

// SplitTaskOutput contains the created group.
type SplitTaskOutput struct {
	GroupID string
	Tasks   []domain.Task
}

// SplitTask is the use case for breaking a goal into timed subtasks.
type SplitTask struct {
	store   shared.BoardStore
	advisor domain.Advisor
	engine  *domain.Engine
	logger  domain.Logger
}

// NewSplitTask creates a new SplitTask use case.
func NewSplitTask(
	store shared.BoardStore,
	advisor domain.Advisor,
	engine *domain.Engine,
	logger domain.Logger,
) *SplitTask {
	return &SplitTask{store: store, advisor: advisor, engine: engine, logger: logger}
}

// Execute asks the advisor for subtasks and prepends them as one group.
// The target day is checked before the advisor is called.
func (uc *SplitTask) Execute(ctx context.Context, in SplitTaskInput) (*SplitTaskOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	b, err := shared.LoadBoard(ctx, uc.store, in.UserID)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date == "" {
		date = uc.engine.Today()
	}
	if b.Day.IsLocked(date) {
		return nil, &domain.DayLockedError{Date: date}
	}

	lang := in.Lang
	if lang == "" {
		lang = domain.DetectLanguage(text)
	}
	subtasks, err := uc.advisor.Decompose(ctx, domain.DecomposeRequest{Text: text, Lang: lang})
	if err != nil {
		logWarn(uc.logger, in.UserID, "advisor", fmt.Sprintf("decompose %q: %v", text, err))
		return nil, err
	}

	after, err := uc.engine.AddAIDecomposition(b, domain.DecompositionInput{
		OriginalText: text,
		Date:         date,
		Subtasks:     subtasks,
	})
	if err != nil {
		return nil, err
	}
	if err := shared.SaveBoard(ctx, uc.store, in.UserID, b, after); err != nil {
		return nil, err
	}

	groupID := after.Tasks[0].GroupID
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("split %q into %d steps", text, len(subtasks)))
	return &SplitTaskOutput{GroupID: groupID, Tasks: after.Group(groupID)}, nil
}
