package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

// ListHistoryInput contains the parameters for reading history.
type ListHistoryInput struct {
	UserID string
	Date   string // Only entries bucketed on this date (empty = all)
	Limit  int    // 0 = no limit
}

// ListHistoryOutput contains one entry per task, newest completion first.
type ListHistoryOutput struct {
	Entries []domain.HistoryEntry
}

// ListHistory is the use case for reading archived tasks.
type ListHistory struct {
	history domain.HistoryRepository
}

// NewListHistory creates a new ListHistory use case.
func NewListHistory(history domain.HistoryRepository) *ListHistory {
	return &ListHistory{history: history}
}

// Execute returns the filtered history.
func (uc *ListHistory) Execute(ctx context.Context, in ListHistoryInput) (*ListHistoryOutput, error) {
	if in.UserID == "" {
		return nil, domain.ErrNotLoggedIn
	}
	entries, err := uc.history.ListHistory(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries = domain.TaskHistory(entries)
	filtered := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if in.Date == "" || e.Day() == in.Date {
			filtered = append(filtered, e)
		}
	}
	limit := -1
	if in.Limit > 0 {
		limit = in.Limit
	}
	return &ListHistoryOutput{Entries: domain.LatestHistory(filtered, limit)}, nil
}
