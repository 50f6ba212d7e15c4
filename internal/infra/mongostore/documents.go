package mongostore

import (
	"time"

	"github.com/runoshun/focusday/internal/domain"
)

type userDoc struct {
	CreatedAt    time.Time `bson:"createdAt"`
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
}

func newUserDoc(u *domain.User) userDoc {
	return userDoc{
		CreatedAt:    u.CreatedAt,
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		CreatedAt:    d.CreatedAt,
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
	}
}

type taskDoc struct {
	CreatedAt   time.Time  `bson:"createdAt"`
	CompletedAt *time.Time `bson:"completedAt"`
	ID          string     `bson:"_id"`
	UserID      string     `bson:"userId"`
	Text        string     `bson:"text"`
	Date        string     `bson:"date"`
	System      string     `bson:"system"`
	GroupID     string     `bson:"groupId,omitempty"`
	GroupTitle  string     `bson:"groupTitle,omitempty"`
	Type        string     `bson:"type,omitempty"`
	Duration    int        `bson:"duration"`
	Remaining   int        `bson:"remaining"`
	Position    int        `bson:"position"`
	Running     bool       `bson:"running"`
	Stopped     bool       `bson:"stopped"`
	Completed   bool       `bson:"completed"`
}

func newTaskDoc(t domain.Task) taskDoc {
	return taskDoc{
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		ID:          t.ID,
		UserID:      t.UserID,
		Text:        t.Text,
		Date:        t.Date,
		System:      string(t.System),
		GroupID:     t.GroupID,
		GroupTitle:  t.GroupTitle,
		Type:        string(t.Type),
		Duration:    t.Duration,
		Remaining:   t.Remaining,
		Position:    t.Position,
		Running:     t.Running,
		Stopped:     t.Stopped,
		Completed:   t.Completed,
	}
}

func (d taskDoc) toDomain() domain.Task {
	return domain.Task{
		CreatedAt:   d.CreatedAt,
		CompletedAt: d.CompletedAt,
		ID:          d.ID,
		UserID:      d.UserID,
		Text:        d.Text,
		Date:        d.Date,
		System:      domain.System(d.System),
		GroupID:     d.GroupID,
		GroupTitle:  d.GroupTitle,
		Type:        domain.IntervalType(d.Type),
		Duration:    d.Duration,
		Remaining:   d.Remaining,
		Position:    d.Position,
		Running:     d.Running,
		Stopped:     d.Stopped,
		Completed:   d.Completed,
	}
}

type historyDoc struct {
	CompletedAt time.Time `bson:"completedAt"`
	ArchivedAt  time.Time `bson:"archivedAt"`
	ID          string    `bson:"_id"`
	UserID      string    `bson:"userId"`
	TaskID      string    `bson:"taskId"`
	Text        string    `bson:"text"`
	Date        string    `bson:"date"`
	System      string    `bson:"system"`
	GroupID     string    `bson:"groupId,omitempty"`
	GroupTitle  string    `bson:"groupTitle,omitempty"`
	Type        string    `bson:"type,omitempty"`
	Kind        string    `bson:"kind"`
	Duration    int       `bson:"duration"`
}

func newHistoryDoc(e domain.HistoryEntry) historyDoc {
	return historyDoc{
		CompletedAt: e.CompletedAt,
		ArchivedAt:  e.ArchivedAt,
		ID:          e.ID,
		UserID:      e.UserID,
		TaskID:      e.TaskID,
		Text:        e.Text,
		Date:        e.Date,
		System:      string(e.System),
		GroupID:     e.GroupID,
		GroupTitle:  e.GroupTitle,
		Type:        string(e.Type),
		Kind:        string(e.ArchivedAs()),
		Duration:    e.Duration,
	}
}

func (d historyDoc) toDomain() domain.HistoryEntry {
	return domain.HistoryEntry{
		CompletedAt: d.CompletedAt,
		ArchivedAt:  d.ArchivedAt,
		ID:          d.ID,
		UserID:      d.UserID,
		TaskID:      d.TaskID,
		Text:        d.Text,
		Date:        d.Date,
		System:      domain.System(d.System),
		GroupID:     d.GroupID,
		GroupTitle:  d.GroupTitle,
		Type:        domain.IntervalType(d.Type),
		Kind:        domain.ArchiveKind(d.Kind),
		Duration:    d.Duration,
	}
}

type dayDoc struct {
	WindowStart time.Time `bson:"windowStart"`
	UserID      string    `bson:"_id"`
	LockedDays  []string  `bson:"lockedDays"`
}

func (d dayDoc) toDomain() domain.DayState {
	return domain.DayState{
		WindowStart: d.WindowStart,
		UserID:      d.UserID,
		LockedDays:  d.LockedDays,
	}
}
