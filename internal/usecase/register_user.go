package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/focusday/internal/domain"
)

// RegisterUserInput contains the parameters for creating an account.
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// RegisterUserOutput contains the created user and, when a token issuer is
// configured, a bearer token for it.
type RegisterUserOutput struct {
	User  *domain.User
	Token string
}

// RegisterUser is the use case for creating an account.
// Fields are ordered to minimize memory padding.
type RegisterUser struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens domain.TokenIssuer
	clock  domain.Clock
	logger domain.Logger
	newID  func() string
}

// NewRegisterUser creates a new RegisterUser use case. tokens may be nil.
func NewRegisterUser(
	users domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	clock domain.Clock,
	newID func() string,
	logger domain.Logger,
) *RegisterUser {
	return &RegisterUser{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		clock:  clock,
		newID:  newID,
		logger: logger,
	}
}

// Execute validates the input, hashes the password and stores the user.
// A taken username or email returns domain.ErrUserExists.
func (uc *RegisterUser) Execute(ctx context.Context, in RegisterUserInput) (*RegisterUserOutput, error) {
	reg := domain.Registration{Username: in.Username, Email: in.Email, Password: in.Password}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		CreatedAt:    uc.clock.Now(),
		ID:           uc.newID(),
		Username:     strings.TrimSpace(in.Username),
		Email:        domain.NormalizeEmail(in.Email),
		PasswordHash: hash,
	}
	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	logInfo(uc.logger, user.ID, "auth", fmt.Sprintf("registered %s", user.Username))

	out := &RegisterUserOutput{User: user}
	if uc.tokens != nil {
		token, err := uc.tokens.Issue(user.ID)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		out.Token = token
	}
	return out, nil
}
