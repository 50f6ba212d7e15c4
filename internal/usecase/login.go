package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

// LoginInput contains the credentials.
type LoginInput struct {
	Email    string
	Password string
	Remember bool // Save the identity as the CLI session
}

// LoginOutput contains the authenticated user.
type LoginOutput struct {
	User  *domain.User
	Token string // Empty when no token issuer is configured
}

// Login is the use case for authenticating a user.
type Login struct {
	verifier domain.CredentialVerifier
	tokens   domain.TokenIssuer
	sessions domain.SessionStore
	clock    domain.Clock
	logger   domain.Logger
}

// NewLogin creates a new Login use case. tokens and sessions may be nil.
func NewLogin(
	verifier domain.CredentialVerifier,
	tokens domain.TokenIssuer,
	sessions domain.SessionStore,
	clock domain.Clock,
	logger domain.Logger,
) *Login {
	return &Login{
		verifier: verifier,
		tokens:   tokens,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

// Execute checks the credentials. Unknown emails and wrong passwords both
// return domain.ErrInvalidCredentials.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	user, err := uc.verifier.VerifyCredential(ctx, in.Email, in.Password)
	if err != nil {
		logWarn(uc.logger, "", "auth", fmt.Sprintf("login failed for %s", domain.NormalizeEmail(in.Email)))
		return nil, err
	}

	out := &LoginOutput{User: user}
	if uc.tokens != nil {
		token, err := uc.tokens.Issue(user.ID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		out.Token = token
	}

	if in.Remember && uc.sessions != nil {
		s := domain.Session{LoggedInAt: uc.clock.Now(), UserID: user.ID, Username: user.Username}
		if err := uc.sessions.SaveSession(s); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}
	logInfo(uc.logger, user.ID, "auth", "logged in")
	return out, nil
}
