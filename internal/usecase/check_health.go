package usecase

import (
	"context"
	"time"

	"github.com/runoshun/focusday/internal/domain"
)

// StoreReporter reports which backend the process selected.
type StoreReporter interface {
	Backend() domain.StoreBackend
}

// AdvisorStatus reports whether the advisory gateway has credentials.
type AdvisorStatus interface {
	Configured() bool
}

// CheckHealthInput contains the input for CheckHealth.
type CheckHealthInput struct{}

// CheckHealthOutput describes the running process.
type CheckHealthOutput struct {
	Time         time.Time           `json:"time"`
	Store        domain.StoreBackend `json:"store"`
	Status       string              `json:"status"`
	AIConfigured bool                `json:"aiConfigured"`
}

// CheckHealth is the use case behind `focusday health` and GET /api/health.
type CheckHealth struct {
	store   StoreReporter
	advisor AdvisorStatus
	clock   domain.Clock
}

// NewCheckHealth creates a new CheckHealth use case.
func NewCheckHealth(store StoreReporter, advisor AdvisorStatus, clock domain.Clock) *CheckHealth {
	return &CheckHealth{store: store, advisor: advisor, clock: clock}
}

// Execute reports "ok" on a reachable remote store and "degraded" otherwise.
func (uc *CheckHealth) Execute(_ context.Context, _ CheckHealthInput) (*CheckHealthOutput, error) {
	b := uc.store.Backend()
	status := "ok"
	if b.Mode != domain.StoreModeRemote {
		status = "degraded"
	}
	return &CheckHealthOutput{
		Time:         uc.clock.Now(),
		Store:        b,
		Status:       status,
		AIConfigured: uc.advisor.Configured(),
	}, nil
}
