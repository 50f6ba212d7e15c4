package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for Task.Date and locked days.
const DateLayout = "2006-01-02"

// System identifies the timing scheme that produced a task.
type System string

// Timing systems.
const (
	SystemShort  System = "short"  // 25/5 cycles
	SystemLong   System = "long"   // 45/15 cycles
	SystemCustom System = "custom" // manual or AI-derived
)

// AllSystems returns every known system in display order.
func AllSystems() []System {
	return []System{SystemShort, SystemLong, SystemCustom}
}

// IsValid reports whether s is a known system.
func (s System) IsValid() bool {
	switch s {
	case SystemShort, SystemLong, SystemCustom:
		return true
	}
	return false
}

// IntervalType marks a task inside a cycle plan as work or rest.
type IntervalType string

// Interval types.
const (
	IntervalWork IntervalType = "work"
	IntervalRest IntervalType = "rest"
)

// Task is a single timed item in a user's live collection.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Text        string       `json:"text"`
	Date        string       `json:"date"`
	System      System       `json:"system"`
	GroupID     string       `json:"groupId,omitempty"`
	GroupTitle  string       `json:"groupTitle,omitempty"`
	Type        IntervalType `json:"type,omitempty"`
	Duration    int          `json:"duration"`  // seconds
	Remaining   int          `json:"remaining"` // seconds
	Position    int          `json:"position"`
	Running     bool         `json:"running"`
	Stopped     bool         `json:"stopped"`
	Completed   bool         `json:"completed"`
}

// IsPending reports whether the task still needs work.
func (t *Task) IsPending() bool {
	return !t.Completed
}

// InGroup reports whether the task belongs to a group.
func (t *Task) InGroup() bool {
	return t.GroupID != ""
}

// Elapsed returns the seconds already spent on the task.
func (t *Task) Elapsed() int {
	if t.Completed {
		return t.Duration
	}
	return t.Duration - t.Remaining
}

// Progress returns the completed fraction in [0, 1].
func (t *Task) Progress() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.Elapsed()) / float64(t.Duration)
}

// TaskPatch carries the fields an update changes. Nil fields are left alone.
type TaskPatch struct {
	Text        *string
	Date        *string
	Duration    *int
	Remaining   *int
	Position    *int
	Running     *bool
	Stopped     *bool
	Completed   *bool
	CompletedAt *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Date == nil && p.Duration == nil && p.Remaining == nil &&
		p.Position == nil && p.Running == nil && p.Stopped == nil && p.Completed == nil &&
		p.CompletedAt == nil
}

// Apply writes the patch onto t. CompletedAt is only written once.
func (p TaskPatch) Apply(t *Task) {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.Remaining != nil {
		t.Remaining = *p.Remaining
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Running != nil {
		t.Running = *p.Running
	}
	if p.Stopped != nil {
		t.Stopped = *p.Stopped
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.CompletedAt != nil && t.CompletedAt == nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
}

// DiffTask returns the patch turning before into after.
func DiffTask(before, after *Task) TaskPatch {
	var p TaskPatch
	if before.Text != after.Text {
		p.Text = &after.Text
	}
	if before.Date != after.Date {
		p.Date = &after.Date
	}
	if before.Duration != after.Duration {
		p.Duration = &after.Duration
	}
	if before.Remaining != after.Remaining {
		p.Remaining = &after.Remaining
	}
	if before.Position != after.Position {
		p.Position = &after.Position
	}
	if before.Running != after.Running {
		p.Running = &after.Running
	}
	if before.Stopped != after.Stopped {
		p.Stopped = &after.Stopped
	}
	if before.Completed != after.Completed {
		p.Completed = &after.Completed
	}
	if before.CompletedAt == nil && after.CompletedAt != nil {
		p.CompletedAt = after.CompletedAt
	}
	return p
}

// FormatDate returns the calendar date of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDate checks that s is a YYYY-MM-DD date.
func ValidateDate(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// FormatClock renders seconds as mm:ss, or h:mm:ss from one hour up.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
