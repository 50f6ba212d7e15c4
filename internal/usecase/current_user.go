package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

// CurrentUserInput selects the user. An empty UserID means the CLI session.
type CurrentUserInput struct {
	UserID string
}

// CurrentUserOutput contains the resolved user.
type CurrentUserOutput struct {
	User *domain.User
}

// CurrentUser is the use case for resolving who is acting.
type CurrentUser struct {
	users    domain.UserRepository
	sessions domain.SessionStore
}

// NewCurrentUser creates a new CurrentUser use case. sessions may be nil
// when every call passes a UserID.
func NewCurrentUser(users domain.UserRepository, sessions domain.SessionStore) *CurrentUser {
	return &CurrentUser{users: users, sessions: sessions}
}

// Execute returns the user. A session pointing at a user the store does not
// know (for example after switching backends) is reported as ErrNotLoggedIn.
func (uc *CurrentUser) Execute(ctx context.Context, in CurrentUserInput) (*CurrentUserOutput, error) {
	id := in.UserID
	fromSession := false
	if id == "" {
		if uc.sessions == nil {
			return nil, domain.ErrNotLoggedIn
		}
		s, err := uc.sessions.LoadSession()
		if err != nil {
			return nil, err
		}
		id, fromSession = s.UserID, true
	}

	user, err := uc.users.FindUser(ctx, domain.UserLookup{ID: id})
	if err != nil {
		if fromSession && errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotLoggedIn
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &CurrentUserOutput{User: user}, nil
}
