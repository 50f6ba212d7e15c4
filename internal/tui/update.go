package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 24; w > 10 && w < 40 {
			m.progress.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case MsgTick:
		if m.quitting {
			return m, nil
		}
		return m, m.step()

	case MsgStepped:
		m.err = msg.Err
		if msg.Out != nil {
			m.board = msg.Out.Board
			for _, c := range msg.Out.Completions {
				m.ring(c.Task.Text)
			}
			if r := msg.Out.Rollover; r != nil {
				m.banner = fmt.Sprintf("Day %s closed, %d tasks archived", r.LockedDay, len(r.Archived))
			}
			m.clampCursor()
		}
		return m, tick()

	case MsgToggled:
		m.err = msg.Err
		m.board = m.session.Board()
		return m, nil

	case MsgCompleted:
		m.err = msg.Err
		if msg.Completion.Task.ID != "" {
			m.ring(msg.Completion.Task.Text)
		}
		m.board = m.session.Board()
		m.clampCursor()
		return m, nil

	case MsgPaused:
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.reminder = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.quitting {
			return m, tea.Quit
		}
		m.quitting = true
		return m, m.pause()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.board.Tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			m.banner = ""
			return m, m.toggle(t.ID)
		}

	case key.Matches(msg, m.keys.Complete):
		if t, ok := m.selected(); ok && !t.Completed {
			return m, m.complete(t.ID)
		}
	}
	return m, nil
}
