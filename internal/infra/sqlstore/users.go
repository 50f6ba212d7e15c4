package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

// FindUser looks a user up by ID, email or username.
func (s *Store) FindUser(ctx context.Context, lookup domain.UserLookup) (*domain.User, error) {
	var (
		where string
		arg   string
	)
	switch {
	case lookup.ID != "":
		where, arg = "id = ?", lookup.ID
	case lookup.Email != "":
		where, arg = "email = ?", domain.NormalizeEmail(lookup.Email)
	case lookup.Username != "":
		where, arg = "username = ?", lookup.Username
	default:
		return nil, domain.ErrUserNotFound
	}

	var (
		u         domain.User
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, s.q(`SELECT id, username, email, password_hash, created_at FROM users WHERE `+where), arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser stores a new user, rejecting a taken email or username.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.Email, u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
