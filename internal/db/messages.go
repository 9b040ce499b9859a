package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/complyward/advisor-go/internal/models"
)

// AppendMessages durably persists a user/assistant message pair for one
// turn. Both rows are written in a single query so a half-written turn
// cannot be observed.
func (c *Client) AppendMessages(ctx context.Context, sessionID, userText, assistantText string) error {
	now := time.Now().UTC()

	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::record("message", $user_id) CONTENT {
			session: type::record("session", $session),
			role: "user",
			content: $user_content,
			created_at: $user_at
		};
		CREATE type::record("message", $assistant_id) CONTENT {
			session: type::record("session", $session),
			role: "assistant",
			content: $assistant_content,
			created_at: $assistant_at
		};
	`, map[string]any{
		"session":           sessionID,
		"user_id":           uuid.NewString(),
		"user_content":      userText,
		"user_at":           now,
		"assistant_id":      uuid.NewString(),
		"assistant_content": assistantText,
		// Assistant message sorts strictly after the user message
		"assistant_at": now.Add(time.Millisecond),
	})
	if err != nil {
		return fmt.Errorf("append messages: %w", wrapQueryError(err))
	}
	return nil
}

// ListMessages returns all messages of a session ordered by creation time.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	results, err := surrealdb.Query[[]models.Message](ctx, c.db, `
		SELECT * FROM message
		WHERE session = type::record("session", $session)
		ORDER BY created_at ASC
	`, map[string]any{"session": sessionID})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Message{}, nil
	}
	return (*results)[0].Result, nil
}
