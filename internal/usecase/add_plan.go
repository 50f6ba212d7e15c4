package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// AddPlanInput contains the parameters for a work/rest cycle plan.
type AddPlanInput struct {
	UserID string
	Text   string
	Date   string        // Defaults to today
	Kind   domain.System // short or long
	Hours  float64
}

// AddPlanOutput contains the created group.
type AddPlanOutput struct {
	GroupID string
	Tasks   []domain.Task
}

// AddPlan is the use case for planning alternating work and rest blocks.
type AddPlan struct {
	store  shared.BoardStore
	engine *domain.Engine
	logger domain.Logger
}

// NewAddPlan creates a new AddPlan use case.
func NewAddPlan(store shared.BoardStore, engine *domain.Engine, logger domain.Logger) *AddPlan {
	return &AddPlan{store: store, engine: engine, logger: logger}
}

// Execute prepends the plan's tasks as one group.
func (uc *AddPlan) Execute(ctx context.Context, in AddPlanInput) (*AddPlanOutput, error) {
	b, err := shared.Mutate(ctx, uc.store, in.UserID, func(b domain.Board) (domain.Board, error) {
		return uc.engine.AddCyclePlan(b, domain.CyclePlanInput{
			Text:  in.Text,
			Date:  in.Date,
			Kind:  in.Kind,
			Hours: in.Hours,
		})
	})
	if err != nil {
		return nil, err
	}

	groupID := b.Tasks[0].GroupID
	group := b.Group(groupID)
	logInfo(uc.logger, in.UserID, "task", fmt.Sprintf("planned %q: %d %s blocks", b.Tasks[0].GroupTitle, len(group), in.Kind))
	return &AddPlanOutput{GroupID: groupID, Tasks: group}, nil
}
