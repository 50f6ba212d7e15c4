package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/runoshun/focusday/internal/domain"
)

type message int

const (
	msgUnavailable message = iota
	msgNotUnderstood
)

var messages = map[domain.Language]map[message]string{
	domain.LangEnglish: {
		msgUnavailable:   "AI service temporarily unavailable. Please try again later.",
		msgNotUnderstood: "AI could not understand this task. Please try rephrasing it more clearly.",
	},
	domain.LangArabic: {
		msgUnavailable:   "خدمة الذكاء الاصطناعي غير متوفرة مؤقتاً. من فضلك حاول مرة أخرى لاحقاً.",
		msgNotUnderstood: "الذكاء الاصطناعي لم يستطع فهم هذه المهمة. من فضلك حاول إعادة صياغتها بشكل أوضح.",
	},
}

func localized(lang domain.Language, m message) string {
	if byLang, ok := messages[lang]; ok {
		return byLang[m]
	}
	return messages[domain.LangEnglish][m]
}

// promptTask is the task view embedded in prompts.
type promptTask struct {
	Text     string `json:"text"`
	Date     string `json:"date"`
	System   string `json:"system"`
	Minutes  int    `json:"minutes"`
	Done     bool   `json:"completed,omitempty"`
	Category string `json:"group,omitempty"`
}

func tasksJSON(tasks []domain.Task) string {
	views := make([]promptTask, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, promptTask{
			Text: t.Text, Date: t.Date, System: string(t.System),
			Minutes: t.Duration / 60, Done: t.Completed, Category: t.GroupTitle,
		})
	}
	return mustJSON(views)
}

func historyJSON(entries []domain.HistoryEntry) string {
	views := make([]promptTask, 0, len(entries))
	for _, e := range entries {
		views = append(views, promptTask{
			Text: e.Text, Date: e.Day(), System: string(e.System),
			Minutes: e.FocusMinutes(), Done: true, Category: e.GroupTitle,
		})
	}
	return mustJSON(views)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func languageRule(lang domain.Language) string {
	return fmt.Sprintf("Write every human-readable field in %s only.", lang.Name())
}

func decomposePrompt(text string, lang domain.Language) string {
	return strings.Join([]string{
		"You plan concrete, sequential action steps for a single goal.",
		fmt.Sprintf("Goal: %q", text),
		"Every step must be about this goal. Order steps from basics to mastery.",
		languageRule(lang),
		`Answer with JSON only: {"data": [{"text": "step", "duration_minutes": 25}]}`,
	}, "\n")
}

func reorderPrompt(req domain.ReorderRequest) string {
	refs := make([]map[string]any, 0, len(req.Tasks))
	for i, t := range req.Tasks {
		refs = append(refs, map[string]any{"index": i, "text": t.Text})
	}
	return strings.Join([]string{
		"You order a day's tasks for the best execution flow.",
		"Tasks: " + mustJSON(refs),
		"Priority: core work and deadlines, then recovery and essentials, then chores, then leisure.",
		languageRule(lang(req.Lang)),
		`Answer with JSON only: {"indices": [original indices in the new order], "message": "one short observation"}`,
	}, "\n")
}

func coachPrompt(req domain.CoachRequest) string {
	return strings.Join([]string{
		"You audit a person's recent productivity.",
		"History: " + historyJSON(req.History),
		"Pending: " + tasksJSON(req.Pending),
		languageRule(lang(req.Lang)),
		"Be direct and professional. No emojis. Say so when there is too little data.",
		`Answer with JSON only: {"focusScore": 0-100, "balanceScore": 0-100, "velocity": tasks per day,` +
			` "topCategory": "...", "message": "...", "proTip": "...", "statusColor": "#hex"}`,
	}, "\n")
}

func chatPrompt(req domain.ChatRequest) string {
	last := req.Messages[len(req.Messages)-1].Text
	return strings.Join([]string{
		"You are a friendly, efficient execution coach.",
		"Pending tasks: " + tasksJSON(req.Pending),
		"Recent completions: " + historyJSON(req.History),
		languageRule(lang(req.Lang)),
		"Use short bullet points, no emojis. Talk about time in minutes or hours.",
		fmt.Sprintf("User: %q", last),
	}, "\n")
}

func lang(l domain.Language) domain.Language {
	if l == "" {
		return domain.LangEnglish
	}
	return l
}
