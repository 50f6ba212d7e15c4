package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// CoachInput contains the parameters for a coaching report.
type CoachInput struct {
	UserID string
	Lang   domain.Language // Detected from history and pending texts when empty
}

// CoachOutput contains the report.
type CoachOutput struct {
	Report domain.CoachReport
}

// Coach is the use case for the AI productivity audit.
type Coach struct {
	store   shared.BoardStore
	history domain.HistoryRepository
	advisor domain.Advisor
	logger  domain.Logger
}

// NewCoach creates a new Coach use case.
func NewCoach(
	store shared.BoardStore,
	history domain.HistoryRepository,
	advisor domain.Advisor,
	logger domain.Logger,
) *Coach {
	return &Coach{store: store, history: history, advisor: advisor, logger: logger}
}

// Execute gathers history and pending tasks and asks the advisor.
func (uc *Coach) Execute(ctx context.Context, in CoachInput) (*CoachOutput, error) {
	b, entries, err := loadContext(ctx, uc.store, uc.history, in.UserID)
	if err != nil {
		return nil, err
	}
	pending := b.Pending()

	lang := in.Lang
	if lang == "" {
		lang = detectContextLanguage(entries, pending)
	}
	report, err := uc.advisor.Coach(ctx, domain.CoachRequest{Lang: lang, History: entries, Pending: pending})
	if err != nil {
		logWarn(uc.logger, in.UserID, "advisor", fmt.Sprintf("coach: %v", err))
		return nil, err
	}
	return &CoachOutput{Report: report}, nil
}

// loadContext reads the board and the history the advisor needs.
func loadContext(
	ctx context.Context,
	store shared.BoardStore,
	history domain.HistoryRepository,
	userID string,
) (domain.Board, []domain.HistoryEntry, error) {
	b, err := shared.LoadBoard(ctx, store, userID)
	if err != nil {
		return domain.Board{}, nil, err
	}
	entries, err := history.ListHistory(ctx, userID)
	if err != nil {
		return domain.Board{}, nil, fmt.Errorf("list history: %w", err)
	}
	return b, entries, nil
}

func detectContextLanguage(entries []domain.HistoryEntry, pending []domain.Task) domain.Language {
	texts := make([]string, 0, len(entries)+len(pending))
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	for _, t := range pending {
		texts = append(texts, t.Text)
	}
	return domain.DetectLanguageOf(texts...)
}
