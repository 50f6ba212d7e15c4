package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/export"
	"github.com/runoshun/focusday/internal/usecase"
)

// ─── Health & auth ───────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	out, err := s.c.CheckHealthUseCase().Execute(r.Context(), usecase.CheckHealthInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.c.RegisterUserUseCase().Execute(r.Context(), usecase.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: out.User, Token: out.Token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.c.LoginUseCase().Execute(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: out.User, Token: out.Token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.CurrentUserUseCase().Execute(r.Context(), usecase.CurrentUserInput{UserID: userID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.User)
}

// ─── Tasks ───────────────────────────────────────────────────────────────────

type taskListResponse struct {
	Running *domain.Task    `json:"running,omitempty"`
	Tasks   []domain.Task   `json:"tasks"`
	Day     domain.DayState `json:"day"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()
	pending, _ := strconv.ParseBool(q.Get("pending"))
	out, err := s.c.ListTasksUseCase().Execute(r.Context(), usecase.ListTasksInput{
		UserID:      userID,
		Date:        q.Get("date"),
		PendingOnly: pending,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	tasks := out.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, taskListResponse{Running: out.Running, Tasks: tasks, Day: out.Day})
}

type addTaskRequest struct {
	Text            string        `json:"text"`
	Date            string        `json:"date"`
	System          domain.System `json:"system"`
	DurationMinutes int           `json:"durationMinutes"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request, userID string) {
	var req addTaskRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.c.AddTaskUseCase().Execute(r.Context(), usecase.AddTaskInput{
		UserID:          userID,
		Text:            req.Text,
		Date:            req.Date,
		System:          req.System,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Task)
}

type editTaskRequest struct {
	Text            *string `json:"text"`
	Date            *string `json:"date"`
	DurationMinutes *int    `json:"durationMinutes"`
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request, userID string) {
	var req editTaskRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.c.EditTaskUseCase().Execute(r.Context(), usecase.EditTaskInput{
		Text:            req.Text,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		UserID:          userID,
		TaskID:          r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.DeleteTaskUseCase().Execute(r.Context(), usecase.DeleteTaskInput{UserID: userID, TaskID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.ToggleTimerUseCase().Execute(r.Context(), usecase.ToggleTimerInput{UserID: userID, TaskID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Task)
}

type completeResponse struct {
	Task  domain.Task         `json:"task"`
	Entry domain.HistoryEntry `json:"entry"`
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.CompleteTaskUseCase().Execute(r.Context(), usecase.CompleteTaskInput{UserID: userID, TaskID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completeResponse{Task: out.Task, Entry: out.Entry})
}

type removedResponse struct {
	Removed int `json:"removed"`
}

func (s *Server) handleClearTasks(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.ClearTasksUseCase().Execute(r.Context(), usecase.ClearTasksInput{UserID: userID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removedResponse{Removed: out.Removed})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.DeleteGroupUseCase().Execute(r.Context(), usecase.DeleteGroupInput{UserID: userID, GroupID: r.PathValue("id")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removedResponse{Removed: out.Removed})
}

type planRequest struct {
	Text  string        `json:"text"`
	Date  string        `json:"date"`
	Kind  domain.System `json:"kind"`
	Hours float64       `json:"hours"`
}

type groupResponse struct {
	GroupID string        `json:"groupId"`
	Message string        `json:"message,omitempty"`
	Tasks   []domain.Task `json:"tasks"`
}

func (s *Server) handleAddPlan(w http.ResponseWriter, r *http.Request, userID string) {
	var req planRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.c.AddPlanUseCase().Execute(r.Context(), usecase.AddPlanInput{
		UserID: userID,
		Text:   req.Text,
		Date:   req.Date,
		Kind:   req.Kind,
		Hours:  req.Hours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, groupResponse{GroupID: out.GroupID, Tasks: out.Tasks})
}

// ─── History ─────────────────────────────────────────────────────────────────

type historyResponse struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrValidation))
			return
		}
		limit = n
	}
	out, err := s.c.ListHistoryUseCase().Execute(r.Context(), usecase.ListHistoryInput{
		UserID: userID,
		Date:   q.Get("date"),
		Limit:  limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	entries := out.Entries
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

type statsResponse struct {
	Summary      domain.Summary `json:"summary"`
	Trend        domain.Trend   `json:"trend"`
	Pending      int            `json:"pending"`
	PendingToday int            `json:"pendingToday"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := s.c.ShowStatsUseCase().Execute(r.Context(), usecase.ShowStatsInput{UserID: userID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Summary:      out.Summary,
		Trend:        out.Summary.Trend(),
		Pending:      out.Pending,
		PendingToday: out.PendingToday,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, userID string) {
	format := export.FormatJSON
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			writeError(w, err)
			return
		}
		format = f
	}
	hist, err := s.c.ListHistoryUseCase().Execute(r.Context(), usecase.ListHistoryInput{UserID: userID})
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := s.c.ShowStatsUseCase().Execute(r.Context(), usecase.ShowStatsInput{UserID: userID})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "focusday-history."+string(format)))
	if err := export.Write(w, format, hist.Entries, stats.Summary, s.c.Clock.Now()); err != nil {
		s.log.Warn("export failed", "user", userID, "err", err)
	}
}

// ─── Advisory ────────────────────────────────────────────────────────────────

type adviceRequest struct {
	Text       string               `json:"text"`
	Date       string               `json:"date"`
	Lang       domain.Language      `json:"lang"`
	Message    string               `json:"message"`
	Transcript []domain.ChatMessage `json:"transcript"`
}

func (req adviceRequest) language() (domain.Language, error) {
	switch req.Lang {
	case "", domain.LangEnglish, domain.LangArabic:
		return req.Lang, nil
	}
	return "", fmt.Errorf("%w: unknown language %q", domain.ErrValidation, req.Lang)
}

func (s *Server) decodeAdvice(w http.ResponseWriter, r *http.Request) (adviceRequest, domain.Language, bool) {
	var req adviceRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return req, "", false
	}
	lang, err := req.language()
	if err != nil {
		writeError(w, err)
		return req, "", false
	}
	return req, lang, true
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request, userID string) {
	req, lang, ok := s.decodeAdvice(w, r)
	if !ok {
		return
	}
	out, err := s.c.SplitTaskUseCase().Execute(r.Context(), usecase.SplitTaskInput{
		UserID: userID,
		Text:   req.Text,
		Date:   req.Date,
		Lang:   lang,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, groupResponse{GroupID: out.GroupID, Tasks: out.Tasks})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request, userID string) {
	_, lang, ok := s.decodeAdvice(w, r)
	if !ok {
		return
	}
	out, err := s.c.ReorderTasksUseCase().Execute(r.Context(), usecase.ReorderTasksInput{UserID: userID, Lang: lang})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Message: out.Message, Tasks: out.Tasks})
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request, userID string) {
	_, lang, ok := s.decodeAdvice(w, r)
	if !ok {
		return
	}
	out, err := s.c.CoachUseCase().Execute(r.Context(), usecase.CoachInput{UserID: userID, Lang: lang})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Report)
}

type chatResponse struct {
	Reply      string               `json:"reply"`
	Transcript []domain.ChatMessage `json:"transcript"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, userID string) {
	req, lang, ok := s.decodeAdvice(w, r)
	if !ok {
		return
	}
	out, err := s.c.ChatUseCase().Execute(r.Context(), usecase.ChatInput{
		UserID:     userID,
		Message:    req.Message,
		Lang:       lang,
		Transcript: req.Transcript,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: out.Reply, Transcript: out.Transcript})
}
