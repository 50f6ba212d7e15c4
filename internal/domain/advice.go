package domain

import "context"

// AdvisoryAction names one of the advisory calls.
type AdvisoryAction string

// Advisory actions.
const (
	ActionDecompose AdvisoryAction = "decompose"
	ActionReorder   AdvisoryAction = "reorder"
	ActionCoach     AdvisoryAction = "coach"
	ActionChat      AdvisoryAction = "chat"
)

// Language is the response language of an advisory call.
type Language string

// Supported languages.
const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// Name returns the English name of the language.
func (l Language) Name() string {
	if l == LangArabic {
		return "Arabic"
	}
	return "English"
}

// Subtask is one step proposed by a decomposition.
type Subtask struct {
	Text            string `json:"text"`
	DurationMinutes int    `json:"duration_minutes"`
}

// TaskRef is the minimal task view sent for reordering.
type TaskRef struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Reordering is a permutation suggestion over the current task positions.
type Reordering struct {
	Message string `json:"message"`
	Indices []int  `json:"indices"`
}

// CoachReport is the coaching display payload.
type CoachReport struct {
	TopCategory  string  `json:"topCategory"`
	Message      string  `json:"message"`
	ProTip       string  `json:"proTip"`
	StatusColor  string  `json:"statusColor"`
	Velocity     float64 `json:"velocity"`
	FocusScore   int     `json:"focusScore"`
	BalanceScore int     `json:"balanceScore"`
}

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	ChatUser      ChatRole = "user"
	ChatAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a chat transcript.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// DecomposeRequest asks for subtasks of one task.
type DecomposeRequest struct {
	Text string
	Lang Language
}

// ReorderRequest asks for a better ordering of tasks.
type ReorderRequest struct {
	Lang  Language
	Tasks []TaskRef
}

// CoachRequest asks for a coaching report.
type CoachRequest struct {
	Lang    Language
	History []HistoryEntry
	Pending []Task
}

// ChatRequest asks for one chat reply.
type ChatRequest struct {
	Lang     Language
	Messages []ChatMessage
	Pending  []Task
	History  []HistoryEntry
}

// Advisor is the AI advisory gateway. Each call either returns its typed
// payload or an *AdvisoryError; payloads are validated before they are returned.
type Advisor interface {
	Decompose(ctx context.Context, req DecomposeRequest) ([]Subtask, error)
	Reorder(ctx context.Context, req ReorderRequest) (Reordering, error)
	Coach(ctx context.Context, req CoachRequest) (CoachReport, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
