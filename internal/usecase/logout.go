package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

// LogoutInput contains the parameters for logging out.
type LogoutInput struct{}

// LogoutOutput contains the result of logging out.
type LogoutOutput struct {
	Username string // Empty when nobody was logged in
}

// Logout is the use case for forgetting the CLI session.
type Logout struct {
	sessions domain.SessionStore
}

// NewLogout creates a new Logout use case.
func NewLogout(sessions domain.SessionStore) *Logout {
	return &Logout{sessions: sessions}
}

// Execute clears the session. Logging out twice is not an error.
func (uc *Logout) Execute(_ context.Context, _ LogoutInput) (*LogoutOutput, error) {
	out := &LogoutOutput{}
	if s, err := uc.sessions.LoadSession(); err == nil {
		out.Username = s.Username
	}
	if err := uc.sessions.ClearSession(); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}
	return out, nil
}
