package domain

import (
	"math"
	"sort"
	"time"
)

// TrendDays is the number of daily buckets kept for trend display.
const TrendDays = 14

// ArchiveKind names the event that produced a history entry.
type ArchiveKind string

// Archive kinds. A task gets at most one entry of each kind.
const (
	ArchiveCompletion ArchiveKind = "completion" // countdown reached zero or completed by hand
	ArchiveRollover   ArchiveKind = "rollover"   // filed under the closing day when the day locks
)

// HistoryEntry is an immutable archival copy of a completed task.
type HistoryEntry struct {
	CompletedAt time.Time    `json:"completedAt"`
	ArchivedAt  time.Time    `json:"archivedAt"`
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	TaskID      string       `json:"taskId"`
	Text        string       `json:"text"`
	Date        string       `json:"date"`
	System      System       `json:"system"`
	GroupID     string       `json:"groupId,omitempty"`
	GroupTitle  string       `json:"groupTitle,omitempty"`
	Type        IntervalType `json:"type,omitempty"`
	Kind        ArchiveKind  `json:"kind,omitempty"`
	Duration    int          `json:"duration"`
}

// newHistoryEntry copies a completed task into a history entry.
func newHistoryEntry(id string, t Task, completedAt, archivedAt time.Time) HistoryEntry {
	return HistoryEntry{
		CompletedAt: completedAt,
		ArchivedAt:  archivedAt,
		ID:          id,
		UserID:      t.UserID,
		TaskID:      t.ID,
		Text:        t.Text,
		Date:        t.Date,
		System:      t.System,
		GroupID:     t.GroupID,
		GroupTitle:  t.GroupTitle,
		Type:        t.Type,
		Kind:        ArchiveCompletion,
		Duration:    t.Duration,
	}
}

// ArchivedAs returns the entry's kind. Entries written before kinds existed
// are completions.
func (e HistoryEntry) ArchivedAs() ArchiveKind {
	if e.Kind == "" {
		return ArchiveCompletion
	}
	return e.Kind
}

// TaskHistory keeps one entry per task: the rollover copy when the task has
// one, otherwise its completion entry. Entries without a task ID are kept.
// Order is preserved.
func TaskHistory(entries []HistoryEntry) []HistoryEntry {
	rolled := make(map[string]bool)
	for _, e := range entries {
		if e.TaskID != "" && e.ArchivedAs() == ArchiveRollover {
			rolled[e.TaskID] = true
		}
	}
	seen := make(map[string]bool, len(entries))
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.TaskID == "" {
			out = append(out, e)
			continue
		}
		if rolled[e.TaskID] && e.ArchivedAs() != ArchiveRollover {
			continue
		}
		if seen[e.TaskID] {
			continue
		}
		seen[e.TaskID] = true
		out = append(out, e)
	}
	return out
}

// Day returns the bucket date of the entry, falling back to the completion date.
func (e HistoryEntry) Day() string {
	if e.Date != "" {
		return e.Date
	}
	return FormatDate(e.CompletedAt)
}

// FocusMinutes returns the entry's duration in minutes.
func (e HistoryEntry) FocusMinutes() float64 {
	return float64(e.Duration) / 60
}

// DailyBucket aggregates the entries of one calendar date.
type DailyBucket struct {
	Date         string  `json:"date" yaml:"date"`
	Count        int     `json:"count" yaml:"count"`
	FocusMinutes float64 `json:"focusMinutes" yaml:"focus_minutes"`
}

// Trend describes the day-over-day direction.
type Trend string

// Trend values.
const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Summary is the read-side view over a user's history.
type Summary struct {
	SystemShare       map[System]int `json:"systemShare" yaml:"system_share"` // rounded percent
	Daily             []DailyBucket  `json:"daily" yaml:"daily"`              // newest first, at most TrendDays
	TotalCompleted    int            `json:"totalCompleted" yaml:"total_completed"`
	TotalFocusMinutes float64        `json:"totalFocusMinutes" yaml:"total_focus_minutes"`
	Today             int            `json:"today" yaml:"today"`
	Yesterday         int            `json:"yesterday" yaml:"yesterday"`
	Delta             int            `json:"delta" yaml:"delta"`
	ActiveDays        int            `json:"activeDays" yaml:"active_days"`
	Velocity          float64        `json:"velocity" yaml:"velocity"` // tasks per active day
}

// Trend returns the direction of Delta.
func (s Summary) Trend() Trend {
	switch {
	case s.Delta > 0:
		return TrendUp
	case s.Delta < 0:
		return TrendDown
	}
	return TrendFlat
}

// Summarize folds history entries into daily buckets and lifetime metrics.
// Each task counts once (see TaskHistory). today and yesterday are taken from
// now's calendar date.
func Summarize(entries []HistoryEntry, now time.Time) Summary {
	entries = TaskHistory(entries)
	sum := Summary{SystemShare: make(map[System]int, 3)}
	for _, sys := range AllSystems() {
		sum.SystemShare[sys] = 0
	}

	byDate := make(map[string]*DailyBucket)
	perSystem := make(map[System]int)
	for _, e := range entries {
		day := e.Day()
		b, ok := byDate[day]
		if !ok {
			b = &DailyBucket{Date: day}
			byDate[day] = b
		}
		b.Count++
		b.FocusMinutes += e.FocusMinutes()

		sum.TotalCompleted++
		sum.TotalFocusMinutes += e.FocusMinutes()
		perSystem[e.System]++
	}

	all := make([]DailyBucket, 0, len(byDate))
	for _, b := range byDate {
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date > all[j].Date })

	sum.ActiveDays = len(all)
	if len(all) > TrendDays {
		all = all[:TrendDays]
	}
	sum.Daily = all

	if sum.TotalCompleted > 0 {
		for sys, n := range perSystem {
			sum.SystemShare[sys] = int(math.Round(float64(n) * 100 / float64(sum.TotalCompleted)))
		}
		sum.Velocity = math.Round(float64(sum.TotalCompleted)/float64(sum.ActiveDays)*10) / 10
	}

	today := FormatDate(now)
	yesterday := FormatDate(now.AddDate(0, 0, -1))
	if b, ok := byDate[today]; ok {
		sum.Today = b.Count
	}
	if b, ok := byDate[yesterday]; ok {
		sum.Yesterday = b.Count
	}
	sum.Delta = sum.Today - sum.Yesterday

	return sum
}

// LatestHistory returns up to n entries, newest completion first.
func LatestHistory(entries []HistoryEntry, n int) []HistoryEntry {
	sorted := make([]HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
