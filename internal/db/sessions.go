package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/complyward/advisor-go/internal/models"
)

// CreateSession inserts a new session row with a fresh memory handle.
// The memory handle is written exactly once here and never reassigned.
func (c *Client) CreateSession(ctx context.Context, workspaceID, userID, memoryHandle string) (*models.Session, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		CREATE type::record("session", $id) CONTENT {
			workspace_id: $workspace_id,
			user_id: $user_id,
			memory_handle: $memory_handle,
			title: NONE,
			started_at: $now,
			last_activity_at: $now,
			message_count: 0
		}
	`, map[string]any{
		"id":            id,
		"workspace_id":  workspaceID,
		"user_id":       userID,
		"memory_handle": memoryHandle,
		"now":           now,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("create session: empty result")
	}
	return &(*results)[0].Result[0], nil
}

// GetSession retrieves a session by ID. Returns nil if not found.
func (c *Client) GetSession(ctx context.Context, id string) (*models.Session, error) {
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		SELECT * FROM type::record("session", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// ListSessions returns a user's sessions in a workspace, most recent
// activity first.
func (c *Client) ListSessions(ctx context.Context, workspaceID, userID string) ([]models.Session, error) {
	results, err := surrealdb.Query[[]models.Session](ctx, c.db, `
		SELECT * FROM session
		WHERE workspace_id = $workspace_id AND user_id = $user_id
		ORDER BY last_activity_at DESC
	`, map[string]any{
		"workspace_id": workspaceID,
		"user_id":      userID,
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Session{}, nil
	}
	return (*results)[0].Result, nil
}

// SetSessionTitle sets the title of a session. Intended to be called once,
// derived from the first user message.
func (c *Client) SetSessionTitle(ctx context.Context, id, title string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("session", $id) SET title = $title WHERE title = NONE
	`, map[string]any{"id": id, "title": title})
	if err != nil {
		return fmt.Errorf("set session title: %w", wrapQueryError(err))
	}
	return nil
}

// TouchSessionAfterTurn increments message_count by 2 and bumps
// last_activity_at. Last writer wins; concurrent sends on one session are
// the caller's responsibility to serialize.
func (c *Client) TouchSessionAfterTurn(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPDATE type::record("session", $id) SET
			message_count += 2,
			last_activity_at = time::now()
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("touch session: %w", wrapQueryError(err))
	}
	return nil
}

// DeleteSession removes a session and cascades its messages.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE message WHERE session = type::record("session", $id);
		DELETE type::record("session", $id);
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("delete session: %w", wrapQueryError(err))
	}
	return nil
}
