// Package memory provides the client for the external turn-memory store.
// The store is write-only from this core's perspective except for bounded
// most-recent reads; entries are never deleted here.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/complyward/advisor-go/internal/models"
)

// Store is the turn-memory collaborator contract.
type Store interface {
	// CreateTimeline allocates a new memory timeline and returns its handle.
	CreateTimeline(ctx context.Context) (string, error)

	// Read returns up to mostRecent entries, oldest first.
	Read(ctx context.Context, handle string, mostRecent int) ([]models.MemoryEntry, error)

	// Write appends one entry to a timeline.
	Write(ctx context.Context, handle string, entry models.MemoryEntry) error
}

// HTTPStore talks to the turn-memory service over its JSON API.
type HTTPStore struct {
	baseURL    string
	httpClient *http.Client
}

var _ Store = (*HTTPStore)(nil)

// NewHTTPStore creates a client for the turn-memory service.
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type createTimelineResponse struct {
	Handle string `json:"handle"`
}

// CreateTimeline allocates a new timeline.
func (s *HTTPStore) CreateTimeline(ctx context.Context) (string, error) {
	var resp createTimelineResponse
	if err := s.do(ctx, http.MethodPost, "/v1/timelines", nil, &resp); err != nil {
		return "", fmt.Errorf("create timeline: %w", err)
	}
	if resp.Handle == "" {
		return "", fmt.Errorf("create timeline: empty handle")
	}
	return resp.Handle, nil
}

type readEntriesResponse struct {
	Entries []models.MemoryEntry `json:"entries"`
}

// Read returns up to mostRecent entries of a timeline, oldest first.
func (s *HTTPStore) Read(ctx context.Context, handle string, mostRecent int) ([]models.MemoryEntry, error) {
	path := fmt.Sprintf("/v1/timelines/%s/entries?most_recent=%d", handle, mostRecent)
	var resp readEntriesResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("read timeline %s: %w", handle, err)
	}
	return resp.Entries, nil
}

// Write appends one entry to a timeline.
func (s *HTTPStore) Write(ctx context.Context, handle string, entry models.MemoryEntry) error {
	path := fmt.Sprintf("/v1/timelines/%s/entries", handle)
	if err := s.do(ctx, http.MethodPost, path, entry, nil); err != nil {
		return fmt.Errorf("write timeline %s: %w", handle, err)
	}
	return nil
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Body content is dropped on purpose; callers log the status only
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
