package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/complyward/advisor-go/internal/models"
)

// Advisor is the client for the advisor HTTP API, used by the CLI.
type Advisor struct {
	baseURL     string
	workspaceID string
	userID      string
	httpClient  *http.Client
}

// NewAdvisor creates an advisor API client acting as one workspace member.
func NewAdvisor(baseURL, workspaceID, userID string) *Advisor {
	return &Advisor{
		baseURL:     baseURL,
		workspaceID: workspaceID,
		userID:      userID,
		httpClient: &http.Client{
			// Chat turns can run several inference calls back to back.
			Timeout: 5 * time.Minute,
		},
	}
}

// apiError is the error body the advisor API returns for failed requests.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Chat sends one conversation turn.
func (a *Advisor) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := a.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sessions lists the caller's sessions, most recent activity first.
func (a *Advisor) Sessions(ctx context.Context) ([]models.SessionSummary, error) {
	var resp []models.SessionSummary
	if err := a.do(ctx, http.MethodGet, "/api/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// History fetches one session with its ordered messages.
func (a *Advisor) History(ctx context.Context, sessionID string) (*models.SessionHistory, error) {
	var resp models.SessionHistory
	if err := a.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a session and its messages.
func (a *Advisor) Delete(ctx context.Context, sessionID string) error {
	return a.do(ctx, http.MethodDelete, "/api/sessions/"+url.PathEscape(sessionID), nil, nil)
}

func (a *Advisor) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Complyward-Workspace", a.workspaceID)
	req.Header.Set("X-Complyward-User", a.userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Code != "" {
			return &apiErr
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
