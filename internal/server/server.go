// Package server exposes the advisor over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/complyward/advisor-go/internal/agent"
	"github.com/complyward/advisor-go/internal/apperr"
	"github.com/complyward/advisor-go/internal/metrics"
	"github.com/complyward/advisor-go/internal/models"
)

const (
	headerWorkspace = "X-Complyward-Workspace"
	headerUser      = "X-Complyward-User"

	maxChatBodyBytes = 64 << 10
)

// Server is the advisor HTTP server.
type Server struct {
	agent   *agent.Agent
	metrics *metrics.Collector
	log     *slog.Logger
	http    *http.Server
}

// New creates the server listening on the given port.
func New(port string, ag *agent.Agent, mc *metrics.Collector, log *slog.Logger) *Server {
	s := &Server{agent: ag, metrics: mc, log: log}
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a turn can run several inference calls
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleSessionHistory)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return loggingMiddleware(s.log)(mux)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("advisor server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// identity extracts the caller's workspace and user from request headers.
// Authentication itself happens upstream at the API gateway.
func identity(r *http.Request) (workspaceID, userID string, ok bool) {
	workspaceID = r.Header.Get(headerWorkspace)
	userID = r.Header.Get(headerUser)
	return workspaceID, userID, workspaceID != "" && userID != ""
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	workspaceID, userID, ok := identity(r)
	if !ok {
		writeError(w, apperr.New(apperr.CodeAccessDenied, "Missing caller identity."))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "BAD_REQUEST",
			"message": "Invalid request body.",
		})
		return
	}

	resp, err := s.agent.Chat(r.Context(), workspaceID, userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	workspaceID, userID, ok := identity(r)
	if !ok {
		writeError(w, apperr.New(apperr.CodeAccessDenied, "Missing caller identity."))
		return
	}

	sessions, err := s.agent.ListSessions(r.Context(), workspaceID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, row := range sessions {
		summary, err := summarize(&row)
		if err != nil {
			writeError(w, err)
			return
		}
		summaries = append(summaries, *summary)
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	workspaceID, userID, ok := identity(r)
	if !ok {
		writeError(w, apperr.New(apperr.CodeAccessDenied, "Missing caller identity."))
		return
	}

	session, messages, err := s.agent.SessionHistory(r.Context(), workspaceID, userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := summarize(session)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]models.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, models.MessageView{
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, models.SessionHistory{Session: *summary, Messages: views})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	workspaceID, userID, ok := identity(r)
	if !ok {
		writeError(w, apperr.New(apperr.CodeAccessDenied, "Missing caller identity."))
		return
	}

	if err := s.agent.DeleteSession(r.Context(), workspaceID, userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func summarize(session *models.Session) (*models.SessionSummary, error) {
	id, err := models.RecordIDString(session.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Could not load the session.", err)
	}
	return &models.SessionSummary{
		ID:             id,
		Title:          session.Title,
		StartedAt:      session.StartedAt.UTC().Format(time.RFC3339),
		LastActivityAt: session.LastActivityAt.UTC().Format(time.RFC3339),
		MessageCount:   session.MessageCount,
	}, nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeAccessDenied:
		return http.StatusForbidden
	case apperr.CodeSessionNotFound:
		return http.StatusNotFound
	case apperr.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperr.CodeAIUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	writeJSON(w, statusFor(code), map[string]string{
		"code":    string(code),
		"message": apperr.MessageOf(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
