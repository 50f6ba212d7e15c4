// Package httpapi exposes the use cases as a JSON API for the web client.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/runoshun/focusday/internal/app"
	"github.com/runoshun/focusday/internal/domain"
)

// ShutdownTimeout bounds how long in-flight requests may finish after the
// server was asked to stop.
const ShutdownTimeout = 5 * time.Second

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server routes API requests to use cases.
type Server struct {
	c   *app.Container
	log *slog.Logger
}

// New creates a Server. It fails when no token issuer is configured.
func New(c *app.Container) (*Server, error) {
	if c.Tokens == nil {
		return nil, fmt.Errorf("%w: jwt secret not configured (set JWT_SECRET)", domain.ErrValidation)
	}
	log := c.Slog
	if log == nil {
		log = slog.Default()
	}
	return &Server{c: c, log: log}, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.authed(s.handleMe))

	mux.HandleFunc("GET /api/tasks", s.authed(s.handleListTasks))
	mux.HandleFunc("POST /api/tasks", s.authed(s.handleAddTask))
	mux.HandleFunc("DELETE /api/tasks", s.authed(s.handleClearTasks))
	mux.HandleFunc("PUT /api/tasks/{id}", s.authed(s.handleEditTask))
	mux.HandleFunc("DELETE /api/tasks/{id}", s.authed(s.handleDeleteTask))
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.authed(s.handleToggleTask))
	mux.HandleFunc("POST /api/tasks/{id}/complete", s.authed(s.handleCompleteTask))
	mux.HandleFunc("POST /api/plans", s.authed(s.handleAddPlan))
	mux.HandleFunc("DELETE /api/groups/{id}", s.authed(s.handleDeleteGroup))

	mux.HandleFunc("GET /api/history", s.authed(s.handleHistory))
	mux.HandleFunc("GET /api/stats", s.authed(s.handleStats))
	mux.HandleFunc("GET /api/export", s.authed(s.handleExport))

	mux.HandleFunc("POST /api/split", s.authed(s.handleSplit))
	mux.HandleFunc("POST /api/reorder", s.authed(s.handleReorder))
	mux.HandleFunc("POST /api/coach", s.authed(s.handleCoach))
	mux.HandleFunc("POST /api/chat", s.authed(s.handleChat))

	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("api listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// authed resolves the bearer token to a user ID.
func (s *Server) authed(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, domain.ErrNotLoggedIn)
			return
		}
		userID, err := s.c.Tokens.Verify(token)
		if err != nil {
			writeError(w, domain.ErrInvalidCredentials)
			return
		}
		next(w, r, userID)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}
	return nil
}
