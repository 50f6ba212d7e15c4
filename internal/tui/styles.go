package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/focusday/internal/domain"
)

// Colors defines the color palette for the focus view.
var Colors = struct {
	Primary   lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Text      lipgloss.Color
	Selected  lipgloss.Color
	Short     lipgloss.Color
	Long      lipgloss.Color
	Custom    lipgloss.Color
	Rest      lipgloss.Color
	GroupLine lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow
	Text:      lipgloss.Color("#DFE6E9"), // Light gray
	Selected:  lipgloss.Color("#FFEAA7"), // Yellow
	Short:     lipgloss.Color("#74B9FF"), // Light blue
	Long:      lipgloss.Color("#A29BFE"), // Lavender
	Custom:    lipgloss.Color("#FD79A8"), // Pink
	Rest:      lipgloss.Color("#55EFC4"), // Mint
	GroupLine: lipgloss.Color("#636E72"),
}

// Styles holds the lipgloss styles used by the view.
type Styles struct {
	Title     lipgloss.Style
	Reminder  lipgloss.Style
	Banner    lipgloss.Style
	Error     lipgloss.Style
	Task      lipgloss.Style
	Selected  lipgloss.Style
	Completed lipgloss.Style
	Running   lipgloss.Style
	Group     lipgloss.Style
	Timer     lipgloss.Style
	Footer    lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary).
			MarginBottom(1),
		Reminder: lipgloss.NewStyle().
			Foreground(Colors.Warning),
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Success).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Success).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(Colors.Error),
		Task: lipgloss.NewStyle().
			Foreground(Colors.Text),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Selected),
		Completed: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(Colors.Muted),
		Running: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Success),
		Group: lipgloss.NewStyle().
			Foreground(Colors.GroupLine).
			Italic(true),
		Timer: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		Footer: lipgloss.NewStyle().
			MarginTop(1),
	}
}

// SystemStyle returns the badge style for a timing system. Rest intervals
// get their own color regardless of system.
func SystemStyle(t domain.Task) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	if t.Type == domain.IntervalRest {
		return s.Foreground(Colors.Rest)
	}
	switch t.System {
	case domain.SystemShort:
		return s.Foreground(Colors.Short)
	case domain.SystemLong:
		return s.Foreground(Colors.Long)
	default:
		return s.Foreground(Colors.Custom)
	}
}
