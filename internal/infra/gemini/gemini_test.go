package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/logging"
)

// fakeAPI serves a model list and per-model generateContent answers.
type fakeAPI struct {
	replies   map[string]fakeReply
	listCalls int
	calls     []string
	list      []string
	mu        sync.Mutex
	listFails bool
}

type fakeReply struct {
	text   string
	status int
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		if r.Method == http.MethodGet && r.URL.Path == "/models" {
			f.listCalls++
			if f.listFails {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			models := make([]map[string]any, 0, len(f.list))
			for _, name := range f.list {
				models = append(models, map[string]any{
					"name":                       "models/" + name,
					"supportedGenerationMethods": []string{"generateContent"},
				})
			}
			models = append(models, map[string]any{
				"name":                       "models/embedding-001",
				"supportedGenerationMethods": []string{"embedContent"},
			})
			_ = json.NewEncoder(w).Encode(map[string]any{"models": models})
			return
		}

		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/models/"), ":generateContent")
		f.calls = append(f.calls, model)

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		reply, ok := f.replies[model]
		if !ok {
			reply = fakeReply{status: http.StatusNotFound, text: "model not found"}
		}
		if reply.status != 0 && reply.status != http.StatusOK {
			w.WriteHeader(reply.status)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": reply.status, "message": reply.text}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": reply.text}}}}},
		})
	}
}

func (f *fakeAPI) modelCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func newTestAdvisor(t *testing.T, api *fakeAPI) (*Advisor, *Client) {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Models:  domain.DefaultModelPreference(),
	})
	return NewAdvisor(client, logging.Nop{}), client
}

func TestSortByPreference(t *testing.T) {
	got := sortByPreference(
		[]string{"gemini-pro", "other-b", "gemini-1.5-pro-002", "other-a", "gemini-1.5-flash-latest"},
		domain.DefaultModelPreference(),
	)
	assert.Equal(t, []string{"gemini-1.5-flash-latest", "gemini-1.5-pro-002", "gemini-pro", "other-b", "other-a"}, got)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "fenced object", in: "```json\n{\"a\": [1]}\n```", want: `{"a": [1]}`, ok: true},
		{name: "array", in: "Here: [1, 2] done", want: "[1, 2]", ok: true},
		{name: "object containing array", in: `{"indices": [2, 0], "message": "x"}`, want: `{"indices": [2, 0], "message": "x"}`, ok: true},
		{name: "none", in: "no json here", ok: false},
		{name: "unclosed", in: "{ oops", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClient_ModelsCachedAndFiltered(t *testing.T) {
	api := &fakeAPI{list: []string{"gemini-pro", "gemini-1.5-flash"}}
	_, client := newTestAdvisor(t, api)

	ctx := context.Background()
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-pro"}, client.Models(ctx))
	client.Models(ctx)
	assert.Equal(t, 1, api.listCount())
}

func TestClient_ModelsFallbackOnListFailure(t *testing.T) {
	api := &fakeAPI{listFails: true}
	_, client := newTestAdvisor(t, api)
	assert.Equal(t, FallbackModels, client.Models(context.Background()))
}

func TestClient_Generate_SkipsQuotaAndMissingModels(t *testing.T) {
	api := &fakeAPI{
		list: []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"},
		replies: map[string]fakeReply{
			"gemini-1.5-flash": {status: http.StatusTooManyRequests, text: "quota"},
			"gemini-pro":       {text: "hello"},
		},
	}
	_, client := newTestAdvisor(t, api)

	text, err := client.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-pro"}, api.modelCalls())
}

func TestClient_Generate_StopsOnOtherErrors(t *testing.T) {
	api := &fakeAPI{
		list: []string{"gemini-1.5-flash", "gemini-pro"},
		replies: map[string]fakeReply{
			"gemini-1.5-flash": {status: http.StatusBadRequest, text: "bad request"},
			"gemini-pro":       {text: "unreached"},
		},
	}
	_, client := newTestAdvisor(t, api)

	_, err := client.Generate(context.Background(), "hi")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, []string{"gemini-1.5-flash"}, api.modelCalls())
}

func TestClient_MissingKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	adv := NewAdvisor(client, logging.Nop{})
	_, err = adv.Decompose(context.Background(), domain.DecomposeRequest{Text: "essay", Lang: domain.LangEnglish})
	assert.ErrorIs(t, err, domain.ErrAdvisoryFailure)
}

func TestAdvisor_Decompose(t *testing.T) {
	api := &fakeAPI{
		list: []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: "Sure!\n```json\n" +
			`{"data": [{"text": " Outline ", "duration_minutes": 20}, {"text": "Draft", "duration": 30}, {"text": "", "duration": -5}]}` +
			"\n```"}},
	}
	adv, _ := newTestAdvisor(t, api)

	got, err := adv.Decompose(context.Background(), domain.DecomposeRequest{Text: "essay", Lang: domain.LangEnglish})
	require.NoError(t, err)
	assert.Equal(t, []domain.Subtask{
		{Text: "Outline", DurationMinutes: 20},
		{Text: "Draft", DurationMinutes: 30},
		{Text: "", DurationMinutes: 0},
	}, got)
}

func TestAdvisor_Decompose_BareArray(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: `[{"text": "Only step", "duration": 10}]`}},
	}
	adv, _ := newTestAdvisor(t, api)

	got, err := adv.Decompose(context.Background(), domain.DecomposeRequest{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Subtask{{Text: "Only step", DurationMinutes: 10}}, got)
}

func TestAdvisor_Decompose_Invalid(t *testing.T) {
	for name, reply := range map[string]string{
		"no json":    "I cannot help with that",
		"empty list": `{"data": []}`,
		"wrong type": `{"data": "steps"}`,
	} {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{list: []string{"gemini-1.5-flash"}, replies: map[string]fakeReply{"gemini-1.5-flash": {text: reply}}}
			adv, _ := newTestAdvisor(t, api)

			_, err := adv.Decompose(context.Background(), domain.DecomposeRequest{Text: "x"})
			assert.ErrorIs(t, err, domain.ErrValidation)
			var ae *domain.AdvisoryError
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, domain.ActionDecompose, ae.Action)
			assert.Equal(t, domain.AdvisoryKindValidation, ae.Kind)
		})
	}
}

func TestAdvisor_Decompose_QuotaUsesOfflinePlan(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {status: http.StatusTooManyRequests, text: "quota"}},
	}
	adv, _ := newTestAdvisor(t, api)

	got, err := adv.Decompose(context.Background(), domain.DecomposeRequest{Text: "Learn Go", Lang: domain.LangEnglish})
	require.NoError(t, err)
	assert.Equal(t, OfflinePlan("Learn Go", domain.LangEnglish), got)
	require.Len(t, got, 3)
	assert.Equal(t, "Learn Go - Review", got[2].Text)
	assert.Equal(t, 10, got[2].DurationMinutes)
}

func TestAdvisor_Decompose_ServerErrorSurfaces(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {status: http.StatusInternalServerError, text: "boom"}},
	}
	adv, _ := newTestAdvisor(t, api)

	_, err := adv.Decompose(context.Background(), domain.DecomposeRequest{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrAdvisoryFailure)
	assert.Contains(t, err.Error(), "boom")
}

func TestAdvisor_Reorder(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: `{"indices": [2, 0, 1], "message": " Deep work first. "}`}},
	}
	adv, _ := newTestAdvisor(t, api)

	got, err := adv.Reorder(context.Background(), domain.ReorderRequest{Tasks: []domain.TaskRef{{ID: "a"}, {ID: "b"}, {ID: "c"}}})
	require.NoError(t, err)
	assert.Equal(t, domain.Reordering{Indices: []int{2, 0, 1}, Message: "Deep work first."}, got)
}

func TestAdvisor_Reorder_MissingIndices(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: `{"message": "no order"}`}},
	}
	adv, _ := newTestAdvisor(t, api)

	_, err := adv.Reorder(context.Background(), domain.ReorderRequest{Tasks: []domain.TaskRef{{ID: "a"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdvisor_Coach(t *testing.T) {
	api := &fakeAPI{
		list: []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: `{"focusScore": 130, "balanceScore": 64.6, "velocity": 3.14,
			"topCategory": "Work", "message": "Solid.", "proTip": "Batch email.", "statusColor": "slate"}`}},
	}
	adv, _ := newTestAdvisor(t, api)

	got, err := adv.Coach(context.Background(), domain.CoachRequest{Lang: domain.LangEnglish})
	require.NoError(t, err)
	assert.Equal(t, domain.CoachReport{
		FocusScore:   100,
		BalanceScore: 65,
		Velocity:     3.1,
		TopCategory:  "Work",
		Message:      "Solid.",
		ProTip:       "Batch email.",
		StatusColor:  defaultStatusColor,
	}, got)
}

func TestAdvisor_Coach_MissingFields(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: `{"balanceScore": 50, "message": "x"}`}},
	}
	adv, _ := newTestAdvisor(t, api)

	_, err := adv.Coach(context.Background(), domain.CoachRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "focusScore")
}

func TestAdvisor_Chat(t *testing.T) {
	api := &fakeAPI{
		list:    []string{"gemini-1.5-flash"},
		replies: map[string]fakeReply{"gemini-1.5-flash": {text: "  - Start with the essay.\n"}},
	}
	adv, _ := newTestAdvisor(t, api)

	reply, err := adv.Chat(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: domain.ChatUser, Text: "What first?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "- Start with the essay.", reply)

	_, err = adv.Chat(context.Background(), domain.ChatRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOfflinePlan_Arabic(t *testing.T) {
	plan := OfflinePlan("تعلم", domain.LangArabic)
	assert.Equal(t, "تعلم - الخطوة 1", plan[0].Text)
	assert.Equal(t, "تعلم - مراجعة", plan[2].Text)
}
