package sqlstore

import (
	"context"
	"fmt"

	"github.com/runoshun/focusday/internal/domain"
)

// AppendHistory stores entries, skipping tasks already archived with the same kind.
func (s *Store) AppendHistory(ctx context.Context, userID string, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := s.q(`INSERT INTO history (id, user_id, task_id, title, scheduled_on, task_system, group_id, group_title,
		interval_type, archive_kind, duration, completed_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, task_id, archive_kind) DO NOTHING`)
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, stmt,
			e.ID, userID, e.TaskID, e.Text, e.Date, string(e.System), e.GroupID, e.GroupTitle,
			string(e.Type), string(e.ArchivedAs()), e.Duration, formatTime(e.CompletedAt), formatTime(e.ArchivedAt),
		); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
	}
	return tx.Commit()
}

// ListHistory returns the user's entries, newest completion first.
func (s *Store) ListHistory(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT id, user_id, task_id, title, scheduled_on, task_system, group_id,
		group_title, interval_type, archive_kind, duration, completed_at, archived_at
		FROM history WHERE user_id = ? ORDER BY completed_at DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e                          domain.HistoryEntry
			system, intervalType, kind string
			completedAt, archivedAt    string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.TaskID, &e.Text, &e.Date, &system, &e.GroupID,
			&e.GroupTitle, &intervalType, &kind, &e.Duration, &completedAt, &archivedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.System = domain.System(system)
		e.Type = domain.IntervalType(intervalType)
		e.Kind = domain.ArchiveKind(kind)
		if e.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, err
		}
		if e.ArchivedAt, err = parseTime(archivedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetDayState returns the user's day window and locked days.
func (s *Store) GetDayState(ctx context.Context, userID string) (domain.DayState, error) {
	state := domain.DayState{UserID: userID}

	var start string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT window_start FROM day_windows WHERE user_id = ?`), userID).Scan(&start)
	switch {
	case err == nil:
		if state.WindowStart, err = parseTime(start); err != nil {
			return state, err
		}
	case isNoRows(err):
	default:
		return state, fmt.Errorf("get day window: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, s.q(`SELECT day FROM locked_days WHERE user_id = ? ORDER BY day`), userID)
	if err != nil {
		return state, fmt.Errorf("list locked days: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return state, fmt.Errorf("scan locked day: %w", err)
		}
		state.LockedDays = append(state.LockedDays, day)
	}
	return state, rows.Err()
}

// SaveDayState upserts the window start and adds any new locked days.
// Locked days are never removed.
func (s *Store) SaveDayState(ctx context.Context, state domain.DayState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	start := ""
	if !state.WindowStart.IsZero() {
		start = formatTime(state.WindowStart)
	}
	if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO day_windows (user_id, window_start) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET window_start = excluded.window_start`), state.UserID, start); err != nil {
		return fmt.Errorf("save day window: %w", err)
	}
	for _, day := range state.LockedDays {
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO locked_days (user_id, day) VALUES (?, ?)
			ON CONFLICT (user_id, day) DO NOTHING`), state.UserID, day); err != nil {
			return fmt.Errorf("lock day: %w", err)
		}
	}
	return tx.Commit()
}
