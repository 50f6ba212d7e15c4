package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

const taskColumns = `id, user_id, title, scheduled_on, task_system, group_id, group_title, interval_type,
	duration, remaining, position, running, stopped, completed, completed_at, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (domain.Task, error) {
	var (
		t                          domain.Task
		system, intervalType       string
		running, stopped, complete int
		completedAt                sql.NullString
		createdAt                  string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Text, &t.Date, &system, &t.GroupID, &t.GroupTitle, &intervalType,
		&t.Duration, &t.Remaining, &t.Position, &running, &stopped, &complete, &completedAt, &createdAt); err != nil {
		return domain.Task{}, err
	}
	t.System = domain.System(system)
	t.Type = domain.IntervalType(intervalType)
	t.Running = running != 0
	t.Stopped = stopped != 0
	t.Completed = complete != 0

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Task{}, err
	}
	if completedAt.Valid && completedAt.String != "" {
		at, err := parseTime(completedAt.String)
		if err != nil {
			return domain.Task{}, err
		}
		t.CompletedAt = &at
	}
	return t, nil
}

// ListTasks returns the user's tasks ordered by position.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY position, created_at`), userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateTask stores a new task.
func (s *Store) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	_, err := s.db.ExecContext(ctx, s.q(`INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.UserID, t.Text, t.Date, string(t.System), t.GroupID, t.GroupTitle, string(t.Type),
		t.Duration, t.Remaining, t.Position, boolInt(t.Running), boolInt(t.Stopped), boolInt(t.Completed),
		nullTime(t.CompletedAt), formatTime(t.CreatedAt),
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// UpdateTask applies patch to the user's task inside a transaction.
func (s *Store) UpdateTask(ctx context.Context, userID, id string, patch domain.TaskPatch) (domain.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, s.q(`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`), id, userID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("get task: %w", err)
	}

	patch.Apply(&t)

	_, err = tx.ExecContext(ctx, s.q(`UPDATE tasks
		SET title = ?, scheduled_on = ?, duration = ?, remaining = ?, position = ?,
			running = ?, stopped = ?, completed = ?, completed_at = ?
		WHERE id = ? AND user_id = ?`),
		t.Text, t.Date, t.Duration, t.Remaining, t.Position,
		boolInt(t.Running), boolInt(t.Stopped), boolInt(t.Completed), nullTime(t.CompletedAt),
		id, userID,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, fmt.Errorf("commit: %w", err)
	}
	return t, nil
}

// DeleteTask removes one task of the user.
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tasks WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteAllTasks removes every task of the user.
func (s *Store) DeleteAllTasks(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tasks WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}
