package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/runoshun/focusday/internal/domain"
)

// Ensure Advisor implements domain.Advisor.
var _ domain.Advisor = (*Advisor)(nil)

// History windows sent with coach and chat requests.
const (
	coachHistoryLimit = 15
	chatHistoryLimit  = 10
)

const defaultStatusColor = "#64748b"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Advisor validates Client responses into typed advisory results.
type Advisor struct {
	client *Client
	log    domain.Logger
}

// NewAdvisor creates an Advisor over client.
func NewAdvisor(client *Client, log domain.Logger) *Advisor {
	return &Advisor{client: client, log: log}
}

func (a *Advisor) failure(action domain.AdvisoryAction, lang domain.Language, err error) error {
	a.log.Warn("", "advisor", fmt.Sprintf("%s failed: %v", action, err))
	msg := err.Error()
	if !errors.Is(err, ErrMissingAPIKey) {
		var se *StatusError
		if errors.As(err, &se) {
			msg = se.Message
		}
		msg = localized(lang, msgUnavailable) + " (" + msg + ")"
	}
	return &domain.AdvisoryError{Action: action, Kind: domain.AdvisoryKindFailure, Message: msg, Err: err}
}

func invalid(action domain.AdvisoryAction, lang domain.Language, detail string) error {
	return &domain.AdvisoryError{
		Action:  action,
		Kind:    domain.AdvisoryKindValidation,
		Message: localized(lang, msgNotUnderstood) + " (" + detail + ")",
	}
}

// generateJSON maps transport failures and unparseable bodies to advisory errors.
func (a *Advisor) generateJSON(ctx context.Context, action domain.AdvisoryAction, lang domain.Language, prompt string, out any) error {
	err := a.client.GenerateJSON(ctx, prompt, out)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.Is(err, errNoJSON) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return invalid(action, lang, err.Error())
	}
	return a.failure(action, lang, err)
}

type subtaskItem struct {
	Text            string   `json:"text"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Duration        *float64 `json:"duration"`
}

func (s subtaskItem) minutes() int {
	switch {
	case s.DurationMinutes != nil:
		return int(math.Round(*s.DurationMinutes))
	case s.Duration != nil:
		return int(math.Round(*s.Duration))
	}
	return 0
}

// decomposeBody accepts both {"data": [...]} and a bare array.
type decomposeBody struct {
	Data []subtaskItem
}

func (b *decomposeBody) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &b.Data)
	}
	var wrapped struct {
		Data []subtaskItem `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	b.Data = wrapped.Data
	return nil
}

// Decompose asks for subtasks. Non-positive durations are passed through as 0;
// the engine applies its own default. A quota failure yields OfflinePlan.
func (a *Advisor) Decompose(ctx context.Context, req domain.DecomposeRequest) ([]domain.Subtask, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, invalid(domain.ActionDecompose, req.Lang, domain.ErrEmptyText.Error())
	}

	var body decomposeBody
	if err := a.generateJSON(ctx, domain.ActionDecompose, req.Lang, decomposePrompt(text, req.Lang), &body); err != nil {
		var ae *domain.AdvisoryError
		if errors.As(err, &ae) && IsQuota(ae.Err) {
			a.log.Info("", "advisor", "quota exhausted; using offline plan")
			return OfflinePlan(text, req.Lang), nil
		}
		return nil, err
	}
	if len(body.Data) == 0 {
		return nil, invalid(domain.ActionDecompose, req.Lang, "no subtasks")
	}

	out := make([]domain.Subtask, 0, len(body.Data))
	for _, item := range body.Data {
		m := item.minutes()
		if m < 0 {
			m = 0
		}
		out = append(out, domain.Subtask{Text: strings.TrimSpace(item.Text), DurationMinutes: m})
	}
	return out, nil
}

// OfflinePlan is the three-step plan offered when the API quota is exhausted.
func OfflinePlan(text string, lang domain.Language) []domain.Subtask {
	step1, step2, review := "Step 1", "Step 2", "Review"
	if lang == domain.LangArabic {
		step1, step2, review = "الخطوة 1", "الخطوة 2", "مراجعة"
	}
	return []domain.Subtask{
		{Text: text + " - " + step1, DurationMinutes: 15},
		{Text: text + " - " + step2, DurationMinutes: 15},
		{Text: text + " - " + review, DurationMinutes: 10},
	}
}

// Reorder asks for a permutation of req.Tasks positions.
func (a *Advisor) Reorder(ctx context.Context, req domain.ReorderRequest) (domain.Reordering, error) {
	if len(req.Tasks) == 0 {
		return domain.Reordering{}, invalid(domain.ActionReorder, req.Lang, "no tasks to reorder")
	}

	var body struct {
		Indices *[]json.Number `json:"indices"`
		Message string         `json:"message"`
	}
	if err := a.generateJSON(ctx, domain.ActionReorder, req.Lang, reorderPrompt(req), &body); err != nil {
		return domain.Reordering{}, err
	}
	if body.Indices == nil {
		return domain.Reordering{}, invalid(domain.ActionReorder, req.Lang, "missing indices")
	}

	indices := make([]int, 0, len(*body.Indices))
	for _, n := range *body.Indices {
		i, err := n.Int64()
		if err != nil {
			return domain.Reordering{}, invalid(domain.ActionReorder, req.Lang, fmt.Sprintf("index %q is not an integer", n))
		}
		indices = append(indices, int(i))
	}
	return domain.Reordering{Indices: indices, Message: strings.TrimSpace(body.Message)}, nil
}

// Coach asks for a coaching report over the latest history and pending tasks.
func (a *Advisor) Coach(ctx context.Context, req domain.CoachRequest) (domain.CoachReport, error) {
	var body struct {
		FocusScore   *float64 `json:"focusScore"`
		BalanceScore *float64 `json:"balanceScore"`
		Velocity     *float64 `json:"velocity"`
		TopCategory  string   `json:"topCategory"`
		Message      string   `json:"message"`
		ProTip       string   `json:"proTip"`
		StatusColor  string   `json:"statusColor"`
	}
	req.History = domain.LatestHistory(req.History, coachHistoryLimit)
	if err := a.generateJSON(ctx, domain.ActionCoach, req.Lang, coachPrompt(req), &body); err != nil {
		return domain.CoachReport{}, err
	}

	switch {
	case body.FocusScore == nil:
		return domain.CoachReport{}, invalid(domain.ActionCoach, req.Lang, "missing focusScore")
	case body.BalanceScore == nil:
		return domain.CoachReport{}, invalid(domain.ActionCoach, req.Lang, "missing balanceScore")
	case strings.TrimSpace(body.Message) == "":
		return domain.CoachReport{}, invalid(domain.ActionCoach, req.Lang, "missing message")
	}

	report := domain.CoachReport{
		FocusScore:   clampScore(*body.FocusScore),
		BalanceScore: clampScore(*body.BalanceScore),
		TopCategory:  strings.TrimSpace(body.TopCategory),
		Message:      strings.TrimSpace(body.Message),
		ProTip:       strings.TrimSpace(body.ProTip),
		StatusColor:  strings.TrimSpace(body.StatusColor),
	}
	if body.Velocity != nil && *body.Velocity >= 0 {
		report.Velocity = math.Round(*body.Velocity*10) / 10
	}
	if !hexColor.MatchString(report.StatusColor) {
		report.StatusColor = defaultStatusColor
	}
	return report, nil
}

func clampScore(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// Chat returns one reply to the last message of the transcript.
func (a *Advisor) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	if len(req.Messages) == 0 || strings.TrimSpace(req.Messages[len(req.Messages)-1].Text) == "" {
		return "", invalid(domain.ActionChat, req.Lang, "empty message")
	}
	req.History = domain.LatestHistory(req.History, chatHistoryLimit)

	reply, err := a.client.Generate(ctx, chatPrompt(req))
	if err != nil {
		return "", a.failure(domain.ActionChat, req.Lang, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", invalid(domain.ActionChat, req.Lang, "empty reply")
	}
	return reply, nil
}
