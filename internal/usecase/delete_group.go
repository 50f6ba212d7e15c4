package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// DeleteGroupInput contains the parameters for deleting a group.
type DeleteGroupInput struct {
	UserID  string
	GroupID string
}

// DeleteGroupOutput contains the number of removed tasks.
type DeleteGroupOutput struct {
	Removed int
}

// DeleteGroup is the use case for deleting every member of a plan or split.
type DeleteGroup struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewDeleteGroup creates a new DeleteGroup use case.
func NewDeleteGroup(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *DeleteGroup {
	return &DeleteGroup{store: store, engine: engine, logger: logger}
}

// Execute removes the group.
func (uc *DeleteGroup) Execute(ctx context.Context, in DeleteGroupInput) (*DeleteGroupOutput, error) {
	removed := 0
	_, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		removed = len(b.Group(in.GroupID))
		return uc.engine.DeleteGroup(b, in.GroupID)
	})
	if err != nil {
		return nil, err
	}
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("deleted group %s (%d tasks)", in.GroupID, removed))
	return &DeleteGroupOutput{Removed: removed}, nil
}
