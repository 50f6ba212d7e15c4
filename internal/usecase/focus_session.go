package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase/shared"
)

// FocusStartOutput contains the loaded board and today's pending tasks,
// which drive the start-up reminder.
type FocusStartOutput struct {
	Board        domain.Board
	PendingToday []domain.Task
}

// FocusStepOutput is everything one second of the session produced.
type FocusStepOutput struct {
	Rollover    *domain.Rollover
	Board       domain.Board
	Completions []domain.Completion
}

// FocusSession owns the in-memory board of one user while a timer view or
// the headless runner is open. It is the single writer for that user:
// each Step advances the board first and persists the difference after.
// A persistence failure is returned but the in-memory board is kept.
// Fields are ordered to minimize memory padding.
type FocusSession struct {
	store   shared.BoardStore
	history domain.HistoryRepository
	engine  *domain.Engine
	logger  domain.Logger
	userID  string
	board   domain.Board
	mu      sync.Mutex
	started bool
}

// NewFocusSession creates a new FocusSession.
func NewFocusSession(
	store shared.BoardStore,
	history domain.HistoryRepository,
	engine *domain.Engine,
	logger domain.Logger,
) *FocusSession {
	return &FocusSession{store: store, history: history, engine: engine, logger: logger}
}

// Start loads the user's board. It can be called again to reload.
func (s *FocusSession) Start(ctx context.Context, userID string) (*FocusStartOutput, error) {
	b, err := shared.LoadBoard(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.board = b
	s.started = true
	logInfo(s.logger, userID, "session", fmt.Sprintf("focus session started with %d tasks", len(b.Tasks)))
	return &FocusStartOutput{Board: b.Clone(), PendingToday: b.PendingOn(s.engine.Today())}, nil
}

// Board returns a copy of the current board.
func (s *FocusSession) Board() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Step advances the running task by one second and then checks for a day
// rollover. Completions and rollover archives are appended to history.
func (s *FocusSession) Step(ctx context.Context) (*FocusStepOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, domain.ErrNotLoggedIn
	}

	before := s.board
	res := s.engine.Step(before)
	s.board = res.Board
	out := &FocusStepOutput{Board: res.Board.Clone(), Completions: res.Completions, Rollover: res.Rollover}

	var archive []domain.HistoryEntry
	for _, c := range res.Completions {
		archive = append(archive, c.Entry)
		logInfo(s.logger, s.userID, "timer", fmt.Sprintf("completed %q", c.Task.Text))
	}
	if res.Rollover != nil {
		archive = append(archive, res.Rollover.Archived...)
		logInfo(s.logger, s.userID, "day", fmt.Sprintf("locked %s, archived %d tasks", res.Rollover.LockedDay, len(res.Rollover.Archived)))
	}

	return out, s.persist(ctx, before, archive)
}

// Toggle starts or pauses a task on the in-memory board.
func (s *FocusSession) Toggle(ctx context.Context, taskID string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.ToggleTimer(s.board, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	before := s.board
	s.board = next
	task, _ := shared.FindTask(next, taskID)
	return task, s.persist(ctx, before, nil)
}

// Complete finishes a task by hand on the in-memory board.
func (s *FocusSession) Complete(ctx context.Context, taskID string) (domain.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, c, err := s.engine.CompleteTask(s.board, taskID)
	if err != nil {
		return domain.Completion{}, err
	}
	before := s.board
	s.board = next
	logInfo(s.logger, s.userID, "task", fmt.Sprintf("completed %q", c.Task.Text))
	return c, s.persist(ctx, before, []domain.HistoryEntry{c.Entry})
}

// Pause stops whatever is running, used when the session closes.
func (s *FocusSession) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.board.Running()
	if !ok {
		return nil
	}
	next, err := s.engine.ToggleTimer(s.board, r.ID)
	if err != nil {
		return err
	}
	before := s.board
	s.board = next
	return s.persist(ctx, before, nil)
}

// persist must be called with mu held.
func (s *FocusSession) persist(ctx context.Context, before domain.Board, archive []domain.HistoryEntry) error {
	saveErr := shared.SaveBoard(ctx, s.store, s.userID, before, s.board)
	archiveErr := shared.Archive(ctx, s.history, s.userID, archive)
	err := errors.Join(saveErr, archiveErr)
	if err != nil {
		logWarn(s.logger, s.userID, "session", fmt.Sprintf("persist: %v", err))
	}
	return err
}
