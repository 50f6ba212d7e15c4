package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Engine applies the task lifecycle rules to a Board.
// Every operation is a pure transform: the input board is never modified,
// and on error the input board is returned unchanged.
type Engine struct {
	clock Clock
	newID func() string
	timer TimerConfig
}

// NewEngine creates a new Engine.
func NewEngine(clock Clock, newID func() string, timer TimerConfig) *Engine {
	return &Engine{clock: clock, newID: newID, timer: timer.withDefaults()}
}

// Timer returns the timing settings the engine uses.
func (e *Engine) Timer() TimerConfig {
	return e.timer
}

// Today returns the current calendar date.
func (e *Engine) Today() string {
	return FormatDate(e.clock.Now())
}

// SimpleTaskInput describes a standalone task.
type SimpleTaskInput struct {
	Text            string
	Date            string // defaults to today
	System          System // defaults to custom
	DurationMinutes int
}

// AddSimpleTask prepends a standalone task.
func (e *Engine) AddSimpleTask(b Board, in SimpleTaskInput) (Board, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return b, ErrEmptyText
	}
	if in.DurationMinutes <= 0 {
		return b, ErrInvalidDuration
	}
	sys := in.System
	if sys == "" {
		sys = SystemCustom
	}
	if !sys.IsValid() {
		return b, fmt.Errorf("%w: %q", ErrInvalidSystem, sys)
	}
	date, err := e.targetDate(b, in.Date)
	if err != nil {
		return b, err
	}

	t := e.newTask(b, text, date, sys, in.DurationMinutes*60)
	return e.prepend(b, []Task{t}), nil
}

// CyclePlanInput describes a work/rest plan.
type CyclePlanInput struct {
	Text  string
	Date  string // defaults to today
	Kind  System // short or long
	Hours float64
}

// Cycles returns how many work/rest pairs fit into hours with the given kind.
// At least one cycle is always planned.
func (c TimerConfig) Cycles(hours float64, kind System) int {
	work, rest := c.Intervals(kind)
	minutes := int(math.Round(hours * 60))
	n := minutes / (work + rest)
	if n < 1 {
		n = 1
	}
	return n
}

// AddCyclePlan prepends a group of alternating work and rest tasks.
func (e *Engine) AddCyclePlan(b Board, in CyclePlanInput) (Board, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return b, ErrEmptyText
	}
	if in.Kind != SystemShort && in.Kind != SystemLong {
		return b, fmt.Errorf("%w: cycle plans need short or long, got %q", ErrInvalidSystem, in.Kind)
	}
	if in.Hours <= 0 || math.IsNaN(in.Hours) || math.IsInf(in.Hours, 0) {
		return b, ErrInvalidDuration
	}
	date, err := e.targetDate(b, in.Date)
	if err != nil {
		return b, err
	}

	work, rest := e.timer.Intervals(in.Kind)
	cycles := e.timer.Cycles(in.Hours, in.Kind)
	groupID := e.newID()
	title := fmt.Sprintf("%s (%sh)", text, strconv.FormatFloat(in.Hours, 'f', -1, 64))

	plan := make([]Task, 0, cycles*2)
	for i := 1; i <= cycles; i++ {
		w := e.newTask(b, fmt.Sprintf("%s (Part %d)", text, i), date, in.Kind, work*60)
		w.GroupID, w.GroupTitle, w.Type = groupID, title, IntervalWork
		r := e.newTask(b, fmt.Sprintf("Rest Break (%d)", i), date, in.Kind, rest*60)
		r.GroupID, r.GroupTitle, r.Type = groupID, title, IntervalRest
		plan = append(plan, w, r)
	}
	return e.prepend(b, plan), nil
}

// DecompositionInput carries advisory subtasks for one original task.
type DecompositionInput struct {
	OriginalText string
	Date         string // defaults to today
	Subtasks     []Subtask
}

// AddAIDecomposition prepends one group built from advisory subtasks.
// Missing durations fall back to the configured default and empty texts are numbered.
func (e *Engine) AddAIDecomposition(b Board, in DecompositionInput) (Board, error) {
	title := strings.TrimSpace(in.OriginalText)
	if title == "" {
		return b, ErrEmptyText
	}
	if len(in.Subtasks) == 0 {
		return b, fmt.Errorf("%w: no subtasks", ErrValidation)
	}
	date, err := e.targetDate(b, in.Date)
	if err != nil {
		return b, err
	}

	groupID := e.newID()
	group := make([]Task, 0, len(in.Subtasks))
	for i, st := range in.Subtasks {
		text := strings.TrimSpace(st.Text)
		if text == "" {
			text = fmt.Sprintf("Subtask %d", i+1)
		}
		minutes := st.DurationMinutes
		if minutes <= 0 {
			minutes = e.timer.DefaultSubtaskMinutes
		}
		t := e.newTask(b, text, date, SystemCustom, minutes*60)
		t.GroupID, t.GroupTitle = groupID, title
		group = append(group, t)
	}
	return e.prepend(b, group), nil
}

// ApplyAIReorder puts the tasks at indices first, in that order, and appends
// every position not mentioned in its original relative order.
// Out-of-range and repeated indices are ignored, so no task is ever dropped.
func (e *Engine) ApplyAIReorder(b Board, indices []int) Board {
	out := b.Clone()
	seen := make([]bool, len(b.Tasks))
	ordered := make([]Task, 0, len(b.Tasks))
	for _, idx := range indices {
		if idx < 0 || idx >= len(b.Tasks) || seen[idx] {
			continue
		}
		seen[idx] = true
		ordered = append(ordered, b.Tasks[idx])
	}
	for i, t := range b.Tasks {
		if !seen[i] {
			ordered = append(ordered, t)
		}
	}
	out.Tasks = ordered
	out.Renumber()
	return out
}

// EditInput changes the core fields of a task. Nil fields are kept.
type EditInput struct {
	Text            *string
	Date            *string
	DurationMinutes *int
}

// EditTask changes text, duration or date of a task on an unlocked day.
// A new duration resets the remaining time.
func (e *Engine) EditTask(b Board, id string, in EditInput) (Board, error) {
	idx := b.Find(id)
	if idx < 0 {
		return b, ErrTaskNotFound
	}
	cur := b.Tasks[idx]
	if b.Day.IsLocked(cur.Date) {
		return b, &DayLockedError{Date: cur.Date}
	}

	next := cur
	if in.Text != nil {
		text := strings.TrimSpace(*in.Text)
		if text == "" {
			return b, ErrEmptyText
		}
		next.Text = text
	}
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return b, ErrInvalidDuration
		}
		next.Duration = *in.DurationMinutes * 60
		next.Remaining = next.Duration
	}
	if in.Date != nil {
		if err := ValidateDate(*in.Date); err != nil {
			return b, err
		}
		if b.Day.IsLocked(*in.Date) {
			return b, &DayLockedError{Date: *in.Date}
		}
		next.Date = *in.Date
	}

	out := b.Clone()
	out.Tasks[idx] = next
	return out, nil
}

// DeleteTask removes one task. Locked days do not prevent deletion.
func (e *Engine) DeleteTask(b Board, id string) (Board, error) {
	idx := b.Find(id)
	if idx < 0 {
		return b, ErrTaskNotFound
	}
	out := b.Clone()
	out.Tasks = append(out.Tasks[:idx], out.Tasks[idx+1:]...)
	out.Renumber()
	return out, nil
}

// DeleteGroup removes every member of groupID and nothing else.
func (e *Engine) DeleteGroup(b Board, groupID string) (Board, error) {
	if groupID == "" || len(b.Group(groupID)) == 0 {
		return b, ErrGroupNotFound
	}
	out := b.Clone()
	kept := out.Tasks[:0]
	for _, t := range out.Tasks {
		if t.GroupID != groupID {
			kept = append(kept, t)
		}
	}
	out.Tasks = kept
	out.Renumber()
	return out, nil
}

// DeleteAll clears the live collection. Day state is kept.
func (e *Engine) DeleteAll(b Board) Board {
	out := b.Clone()
	out.Tasks = nil
	return out
}

func (e *Engine) targetDate(b Board, date string) (string, error) {
	if date == "" {
		date = e.Today()
	}
	if err := ValidateDate(date); err != nil {
		return "", err
	}
	if b.Day.IsLocked(date) {
		return "", &DayLockedError{Date: date}
	}
	return date, nil
}

func (e *Engine) newTask(b Board, text, date string, sys System, seconds int) Task {
	return Task{
		CreatedAt: e.clock.Now(),
		ID:        e.newID(),
		UserID:    b.Day.UserID,
		Text:      text,
		Date:      date,
		System:    sys,
		Duration:  seconds,
		Remaining: seconds,
	}
}

// prepend puts tasks in front of the unlocked part of the collection.
func (e *Engine) prepend(b Board, tasks []Task) Board {
	out := b.Clone()
	out.Tasks = append(tasks, b.withoutLocked()...)
	out.Renumber()
	return out
}

// windowElapsed reports whether the rollover window has passed at now.
func (e *Engine) windowElapsed(start, now time.Time) bool {
	return now.Sub(start) >= e.timer.RolloverWindow()
}
