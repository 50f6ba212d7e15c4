package tui

import (
	"fmt"
	"strings"

	"github.com/runoshun/focusday/internal/domain"
)

// View renders the focus view.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("focusday"))
	b.WriteString("\n")

	if len(m.reminder) > 0 {
		b.WriteString(m.styles.Reminder.Render(reminderText(m.reminder)))
		b.WriteString("\n\n")
	}

	if len(m.board.Tasks) == 0 {
		b.WriteString(m.styles.Timer.Render("No tasks. Add one with 'focusday add'."))
		b.WriteString("\n")
	}

	group := ""
	for i, t := range m.board.Tasks {
		if t.GroupID != group {
			group = t.GroupID
			if t.GroupTitle != "" {
				b.WriteString(m.styles.Group.Render("── " + t.GroupTitle))
				b.WriteString("\n")
			}
		}
		b.WriteString(m.renderTask(i, t))
		b.WriteString("\n")
	}

	if r, ok := m.board.Running(); ok {
		b.WriteString("\n")
		b.WriteString(m.styles.Running.Render(fmt.Sprintf("▶ %s  %s", r.Text, domain.FormatClock(r.Remaining))))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(r.Progress()))
		b.WriteString("\n")
	}

	if m.banner != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Banner.Render(m.banner))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) renderTask(i int, t domain.Task) string {
	cursor := "  "
	if i == m.cursor {
		cursor = "> "
	}

	mark := "○"
	switch {
	case t.Completed:
		mark = "✓"
	case t.Running:
		mark = "▶"
	case t.Remaining < t.Duration:
		mark = "‖"
	}

	badge := SystemStyle(t).Render(badgeText(t))
	text := t.Text
	switch {
	case t.Completed:
		text = m.styles.Completed.Render(text)
	case i == m.cursor:
		text = m.styles.Selected.Render(text)
	case t.Running:
		text = m.styles.Running.Render(text)
	default:
		text = m.styles.Task.Render(text)
	}

	clock := m.styles.Timer.Render(domain.FormatClock(t.Remaining))
	return fmt.Sprintf("%s%s %s %s %s", cursor, mark, badge, text, clock)
}

func badgeText(t domain.Task) string {
	if t.Type == domain.IntervalRest {
		return "[rest]"
	}
	return "[" + string(t.System) + "]"
}

func reminderText(pending []domain.Task) string {
	if len(pending) == 1 {
		return fmt.Sprintf("1 task pending today: %s", pending[0].Text)
	}
	return fmt.Sprintf("%d tasks pending today, next up: %s", len(pending), pending[0].Text)
}
