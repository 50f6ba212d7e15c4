package tui

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/usecase"
)

type fakeSession struct {
	board     domain.Board
	stepOut   *usecase.FocusStepOutput
	stepErr   error
	toggled   []string
	completed []string
	paused    bool
}

func (f *fakeSession) Board() domain.Board { return f.board.Clone() }

func (f *fakeSession) Step(context.Context) (*usecase.FocusStepOutput, error) {
	return f.stepOut, f.stepErr
}

func (f *fakeSession) Toggle(_ context.Context, id string) (domain.Task, error) {
	f.toggled = append(f.toggled, id)
	return domain.Task{ID: id}, nil
}

func (f *fakeSession) Complete(_ context.Context, id string) (domain.Completion, error) {
	f.completed = append(f.completed, id)
	return domain.Completion{Task: domain.Task{ID: id, Text: "task " + id}}, nil
}

func (f *fakeSession) Pause(context.Context) error {
	f.paused = true
	return nil
}

func newTestModel(tasks ...domain.Task) (*Model, *fakeSession, *bytes.Buffer) {
	s := &fakeSession{board: domain.Board{Tasks: tasks}}
	m := New(s, nil)
	bell := &bytes.Buffer{}
	m.SetBell(bell)
	return m, s, bell
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdate_TickRunsStep(t *testing.T) {
	m, _, _ := newTestModel()
	_, cmd := m.Update(MsgTick{})
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(MsgStepped)
	assert.True(t, ok)
}

func TestUpdate_SteppedRingsOnCompletion(t *testing.T) {
	m, _, bell := newTestModel(domain.Task{ID: "a", Text: "write"})
	done := domain.Task{ID: "a", Text: "write", Completed: true}

	_, cmd := m.Update(MsgStepped{Out: &usecase.FocusStepOutput{
		Board:       domain.Board{Tasks: []domain.Task{done}},
		Completions: []domain.Completion{{Task: done}},
	}})

	assert.NotNil(t, cmd, "next tick is scheduled")
	assert.Equal(t, "\a", bell.String())
	assert.Contains(t, m.banner, "write")
	assert.True(t, m.board.Tasks[0].Completed)
}

func TestUpdate_SteppedShowsRollover(t *testing.T) {
	m, _, _ := newTestModel(domain.Task{ID: "a", Completed: true})
	m.cursor = 0

	m.Update(MsgStepped{Out: &usecase.FocusStepOutput{
		Rollover: &domain.Rollover{LockedDay: "2024-05-01", Archived: make([]domain.HistoryEntry, 1)},
	}})

	assert.Contains(t, m.banner, "2024-05-01")
	assert.Empty(t, m.board.Tasks)
	assert.Zero(t, m.cursor)
}

func TestUpdate_SteppedKeepsTickingOnError(t *testing.T) {
	m, _, _ := newTestModel()
	_, cmd := m.Update(MsgStepped{Err: assert.AnError})
	assert.NotNil(t, cmd)
	assert.ErrorIs(t, m.err, assert.AnError)
	assert.Contains(t, m.View(), "Error:")
}

func TestUpdate_KeysToggleAndComplete(t *testing.T) {
	m, s, bell := newTestModel(domain.Task{ID: "a"}, domain.Task{ID: "b"})

	m.Update(keyPress("down"))
	assert.Equal(t, 1, m.cursor)
	m.Update(keyPress("down"))
	assert.Equal(t, 1, m.cursor, "cursor stops at the last task")

	_, cmd := m.Update(keyPress(" "))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, []string{"b"}, s.toggled)

	m.Update(keyPress("up"))
	_, cmd = m.Update(keyPress("d"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, []string{"a"}, s.completed)
	assert.Equal(t, "\a", bell.String())
}

func TestUpdate_CompleteSkipsFinishedTask(t *testing.T) {
	m, _, _ := newTestModel(domain.Task{ID: "a", Completed: true})
	_, cmd := m.Update(keyPress("d"))
	assert.Nil(t, cmd)
}

func TestUpdate_QuitPausesFirst(t *testing.T) {
	m, s, _ := newTestModel(domain.Task{ID: "a", Running: true})

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)

	msg := cmd()
	assert.True(t, s.paused)
	_, cmd = m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(MsgTick{})
	assert.Nil(t, cmd, "no steps once quitting")
}

func TestUpdate_KeyClearsReminder(t *testing.T) {
	s := &fakeSession{}
	m := New(s, []domain.Task{{Text: "stretch"}})
	assert.Contains(t, m.View(), "stretch")

	m.Update(keyPress("?"))
	assert.Nil(t, m.reminder)
	assert.True(t, m.help.ShowAll)
}
