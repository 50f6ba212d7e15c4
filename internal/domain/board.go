package domain

import (
	"slices"
	"time"
)

// DayState holds the day window and the Day-Lock Record of one user.
type DayState struct {
	WindowStart time.Time `json:"windowStart"`
	UserID      string    `json:"userId"`
	LockedDays  []string  `json:"lockedDays"`
}

// IsLocked reports whether date has been closed out.
func (s DayState) IsLocked(date string) bool {
	return slices.Contains(s.LockedDays, date)
}

// Lock returns a copy of s with date appended to the locked set.
func (s DayState) Lock(date string) DayState {
	out := s
	out.LockedDays = slices.Clone(s.LockedDays)
	if !out.IsLocked(date) {
		out.LockedDays = append(out.LockedDays, date)
	}
	return out
}

// Board is the live task collection of one user together with its day state.
// Engine operations take a Board and return a new one.
type Board struct {
	Tasks []Task
	Day   DayState
}

// Clone returns a deep enough copy of b that mutating the copy's tasks
// or locked days never touches b.
func (b Board) Clone() Board {
	return Board{
		Tasks: slices.Clone(b.Tasks),
		Day: DayState{
			WindowStart: b.Day.WindowStart,
			UserID:      b.Day.UserID,
			LockedDays:  slices.Clone(b.Day.LockedDays),
		},
	}
}

// Find returns the index of the task with id, or -1.
func (b Board) Find(id string) int {
	return slices.IndexFunc(b.Tasks, func(t Task) bool { return t.ID == id })
}

// Running returns the running task, if any.
func (b Board) Running() (Task, bool) {
	for _, t := range b.Tasks {
		if t.Running {
			return t, true
		}
	}
	return Task{}, false
}

// HasActiveWork reports whether any task is running or still pending.
// Rollover waits while this is true.
func (b Board) HasActiveWork() bool {
	return slices.ContainsFunc(b.Tasks, func(t Task) bool {
		return t.Running || !t.Completed
	})
}

// Pending returns the tasks that are not completed.
func (b Board) Pending() []Task {
	var out []Task
	for _, t := range b.Tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// PendingOn returns the pending tasks scheduled on date.
func (b Board) PendingOn(date string) []Task {
	var out []Task
	for _, t := range b.Tasks {
		if !t.Completed && t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

// Group returns the members of groupID in board order.
func (b Board) Group(groupID string) []Task {
	var out []Task
	for _, t := range b.Tasks {
		if t.GroupID == groupID {
			out = append(out, t)
		}
	}
	return out
}

// withoutLocked drops tasks whose date is in the Day-Lock set.
func (b Board) withoutLocked() []Task {
	out := make([]Task, 0, len(b.Tasks))
	for _, t := range b.Tasks {
		if !b.Day.IsLocked(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// Renumber sets Position to each task's index.
func (b *Board) Renumber() {
	for i := range b.Tasks {
		b.Tasks[i].Position = i
	}
}
