package domain

import (
	"fmt"
	"strings"
	"time"
)

// MinPasswordLength is the shortest password registration accepts.
const MinPasswordLength = 6

// User owns tasks, history and day state.
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
}

// UserLookup selects a user by exactly one of its unique keys.
type UserLookup struct {
	ID       string
	Email    string
	Username string
}

// Matches reports whether u satisfies the lookup.
func (l UserLookup) Matches(u *User) bool {
	switch {
	case l.ID != "":
		return u.ID == l.ID
	case l.Email != "":
		return u.Email == NormalizeEmail(l.Email)
	case l.Username != "":
		return u.Username == l.Username
	}
	return false
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Conflicts reports whether u and other share a unique key.
func (u *User) Conflicts(other *User) bool {
	return u.Email == other.Email || u.Username == other.Username
}

// Registration is the input of a new account.
type Registration struct {
	Username string
	Email    string
	Password string
}

// Validate checks the registration fields.
func (r Registration) Validate() error {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case !strings.Contains(r.Email, "@"):
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	case len(r.Password) < MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	return nil
}
