package domain

import "time"

// Completion is emitted when a task finishes. Entry is the history record to append.
type Completion struct {
	Task  Task
	Entry HistoryEntry
}

// ToggleTimer starts the task with id and stops every other task,
// or pauses it when it is already running.
func (e *Engine) ToggleTimer(b Board, id string) (Board, error) {
	idx := b.Find(id)
	if idx < 0 {
		return b, ErrTaskNotFound
	}
	if b.Tasks[idx].Completed {
		return b, ErrTaskCompleted
	}

	out := b.Clone()
	wasRunning := out.Tasks[idx].Running
	for i := range out.Tasks {
		out.Tasks[i].Running = false
	}
	if wasRunning {
		out.Tasks[idx].Stopped = true
	} else {
		out.Tasks[idx].Running = true
	}
	return out, nil
}

// Tick advances the running task by one second. A running task that reaches
// zero completes and its remaining time resets to the full duration.
func (e *Engine) Tick(b Board) (Board, []Completion) {
	now := e.clock.Now()
	out := b.Clone()
	var done []Completion
	for i := range out.Tasks {
		t := &out.Tasks[i]
		if !t.Running {
			continue
		}
		if t.Remaining > t.Duration {
			t.Remaining = t.Duration
		}
		if t.Remaining > 0 {
			t.Remaining--
		}
		if t.Remaining == 0 {
			done = append(done, e.complete(t, now))
		}
	}
	return out, done
}

// CompleteTask marks a task as done by hand, with the same transition as a
// countdown reaching zero.
func (e *Engine) CompleteTask(b Board, id string) (Board, Completion, error) {
	idx := b.Find(id)
	if idx < 0 {
		return b, Completion{}, ErrTaskNotFound
	}
	if b.Tasks[idx].Completed {
		return b, Completion{}, ErrTaskCompleted
	}
	out := b.Clone()
	c := e.complete(&out.Tasks[idx], e.clock.Now())
	return out, c, nil
}

func (e *Engine) complete(t *Task, now time.Time) Completion {
	t.Running = false
	t.Completed = true
	t.Remaining = t.Duration
	if t.CompletedAt == nil {
		at := now
		t.CompletedAt = &at
	}
	return Completion{
		Task:  *t,
		Entry: newHistoryEntry(e.newID(), *t, *t.CompletedAt, now),
	}
}

// Rollover is the result of a day-lock transition.
type Rollover struct {
	LockedDay string
	Archived  []HistoryEntry
}

// CheckDayRollover closes the current day window once it is at least the
// rollover window old and nothing is running or pending. The window-start day is
// locked and the live collection is cleared. Tasks completed inside the window
// are archived again as rollover entries filed under the closing day with
// completedAt=now. A board without a window gets one starting at now.
func (e *Engine) CheckDayRollover(b Board, now time.Time) (Board, *Rollover) {
	if b.Day.WindowStart.IsZero() {
		out := b.Clone()
		out.Day.WindowStart = now
		return out, nil
	}
	if !e.windowElapsed(b.Day.WindowStart, now) || b.HasActiveWork() {
		return b, nil
	}

	closing := FormatDate(b.Day.WindowStart)
	out := b.Clone()
	out.Day = out.Day.Lock(closing)
	out.Day.WindowStart = now

	r := &Rollover{LockedDay: closing}
	for _, t := range b.Tasks {
		if !t.Completed || !completedInWindow(t, b.Day.WindowStart, now) {
			continue
		}
		entry := newHistoryEntry(e.newID(), t, now, now)
		entry.Date = closing
		entry.Kind = ArchiveRollover
		r.Archived = append(r.Archived, entry)
	}
	out.Tasks = nil
	return out, r
}

// completedInWindow reports whether t was completed between start and now.
// Without a completion time the task's date must fall in that range.
func completedInWindow(t Task, start, now time.Time) bool {
	if t.CompletedAt != nil {
		return !t.CompletedAt.Before(start) && !t.CompletedAt.After(now)
	}
	return t.Date >= FormatDate(start) && t.Date <= FormatDate(now)
}

// StepResult is everything one clock tick produced.
type StepResult struct {
	Board       Board
	Completions []Completion
	Rollover    *Rollover
}

// Step runs Tick and then the rollover check. Rollover is only considered when
// the board had no active work before the tick.
func (e *Engine) Step(b Board) StepResult {
	now := e.clock.Now()
	idle := !b.HasActiveWork()
	next, done := e.Tick(b)
	res := StepResult{Board: next, Completions: done}
	if idle {
		res.Board, res.Rollover = e.CheckDayRollover(next, now)
	}
	return res
}
