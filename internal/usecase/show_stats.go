package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// ShowStatsInput contains the parameters for the metrics view.
type ShowStatsInput struct {
	UserID string
}

// ShowStatsOutput contains the history summary and live counts.
type ShowStatsOutput struct {
	Summary      domain.Summary
	Pending      int
	PendingToday int
}

// ShowStats is the use case for the metrics view.
type ShowStats struct {
	store   shared.BoardStore
	history domain.HistoryRepository
	clock   domain.Clock
}

// NewShowStats creates a new ShowStats use case.
func NewShowStats(store shared.BoardStore, history domain.HistoryRepository, clock domain.Clock) *ShowStats {
	return &ShowStats{store: store, history: history, clock: clock}
}

// Execute summarizes history relative to now.
func (uc *ShowStats) Execute(ctx context.Context, in ShowStatsInput) (*ShowStatsOutput, error) {
	b, err := shared.LoadBoard(ctx, uc.store, in.UserID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.history.ListHistory(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	now := uc.clock.Now()
	return &ShowStatsOutput{
		Summary:      domain.Summarize(entries, now),
		Pending:      len(b.Pending()),
		PendingToday: len(b.PendingOn(domain.FormatDate(now))),
	}, nil
}
