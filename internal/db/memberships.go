package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/complyward/advisor-go/internal/models"
)

type membershipRow struct {
	Role models.Role `json:"role"`
}

// MemberRole returns the user's role in the workspace, or nil if the user
// is not a member.
func (c *Client) MemberRole(ctx context.Context, workspaceID, userID string) (*models.Role, error) {
	results, err := surrealdb.Query[[]membershipRow](ctx, c.db, `
		SELECT role FROM membership
		WHERE workspace_id = $workspace_id AND user_id = $user_id
		LIMIT 1
	`, map[string]any{
		"workspace_id": workspaceID,
		"user_id":      userID,
	})
	if err != nil {
		return nil, fmt.Errorf("member role: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	role := (*results)[0].Result[0].Role
	return &role, nil
}
