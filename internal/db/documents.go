package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/complyward/advisor-go/internal/models"
)

// GetDocument retrieves a document by ID within a workspace. Returns nil if
// not found or cross-tenant.
func (c *Client) GetDocument(ctx context.Context, workspaceID, id string) (*models.Document, error) {
	results, err := surrealdb.Query[[]models.Document](ctx, c.db, `
		SELECT * FROM type::record("document", $id)
		WHERE workspace_id = $workspace_id
	`, map[string]any{"id": id, "workspace_id": workspaceID})
	if err != nil {
		return nil, fmt.Errorf("get document: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// FindDocumentByFilename returns the document with an exact case-insensitive
// filename match, or nil when there is none.
func (c *Client) FindDocumentByFilename(ctx context.Context, workspaceID, filename string) (*models.Document, error) {
	results, err := surrealdb.Query[[]models.Document](ctx, c.db, `
		SELECT * FROM document
		WHERE workspace_id = $workspace_id
			AND string::lowercase(filename) = string::lowercase($filename)
		LIMIT 1
	`, map[string]any{"workspace_id": workspaceID, "filename": filename})
	if err != nil {
		return nil, fmt.Errorf("find document by filename: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// SearchDocumentsByEmbedding returns the nearest documents to the query
// vector within a workspace, best match first.
func (c *Client) SearchDocumentsByEmbedding(ctx context.Context, workspaceID string, embedding []float32, limit int) ([]models.Document, error) {
	sql := fmt.Sprintf(`
		SELECT *, vector::similarity::cosine(embedding, $emb) AS score
		FROM document
		WHERE workspace_id = $workspace_id AND embedding <|%d,40|> $emb
		ORDER BY score DESC
	`, limit)

	results, err := surrealdb.Query[[]models.Document](ctx, c.db, sql, map[string]any{
		"workspace_id": workspaceID,
		"emb":          embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Document{}, nil
	}
	return (*results)[0].Result, nil
}

// ListDocuments returns a workspace's documents, most recent first.
func (c *Client) ListDocuments(ctx context.Context, workspaceID string, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	results, err := surrealdb.Query[[]models.Document](ctx, c.db, `
		SELECT * FROM document
		WHERE workspace_id = $workspace_id
		ORDER BY created_at DESC
		LIMIT $limit
	`, map[string]any{"workspace_id": workspaceID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Document{}, nil
	}
	return (*results)[0].Result, nil
}
