// Package tui provides the interactive focus view: a live countdown over the
// user's board, driven by one FocusSession step per second.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

// Session is the part of usecase.FocusSession the view drives.
type Session interface {
	Board() domain.Board
	Step(ctx context.Context) (*usecase.FocusStepOutput, error)
	Toggle(ctx context.Context, taskID string) (domain.Task, error)
	Complete(ctx context.Context, taskID string) (domain.Completion, error)
	Pause(ctx context.Context) error
}

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Model is the bubbletea model for the focus view.
type Model struct {
	// Dependencies
	session Session
	bell    io.Writer
	err     error

	// State
	board    domain.Board
	reminder []domain.Task
	banner   string

	// Components
	keys     KeyMap
	styles   Styles
	help     help.Model
	progress progress.Model

	// Numeric state
	cursor   int
	width    int
	quitting bool
}

// New creates a focus view over an already started session.
// pendingToday is shown as a reminder until the first key press.
func New(s Session, pendingToday []domain.Task) *Model {
	return &Model{
		session:  s,
		bell:     os.Stderr,
		board:    s.Board(),
		reminder: pendingToday,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// SetBell replaces the writer that receives the completion bell.
func (m *Model) SetBell(w io.Writer) {
	m.bell = w
}

// Init starts the one-second clock.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

func (m *Model) step() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Step(context.Background())
		return MsgStepped{Out: out, Err: err}
	}
}

func (m *Model) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.session.Toggle(context.Background(), id)
		return MsgToggled{Task: t, Err: err}
	}
}

func (m *Model) complete(id string) tea.Cmd {
	return func() tea.Msg {
		c, err := m.session.Complete(context.Background(), id)
		return MsgCompleted{Completion: c, Err: err}
	}
}

func (m *Model) pause() tea.Cmd {
	return func() tea.Msg {
		return MsgPaused{Err: m.session.Pause(context.Background())}
	}
}

// ring announces a completion.
func (m *Model) ring(text string) {
	m.banner = fmt.Sprintf("Done: %s", text)
	if m.bell != nil {
		_, _ = io.WriteString(m.bell, "\a")
	}
}

func (m *Model) selected() (domain.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.board.Tasks) {
		return domain.Task{}, false
	}
	return m.board.Tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.board.Tasks) {
		m.cursor = len(m.board.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
