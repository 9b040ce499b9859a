package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/complyward/advisor-go/internal/models"
)

// SearchChunks queries the HNSW index for the topK nearest chunks. The
// index does not guarantee post-filter ordering; callers re-rank hydrated
// results by score.
func (c *Client) SearchChunks(ctx context.Context, embedding []float32, topK int) ([]models.ChunkHit, error) {
	// ef=40 for better recall, matching the index build parameters
	sql := fmt.Sprintf(`
		SELECT id, article_id, framework_id,
			vector::similarity::cosine(embedding, $emb) AS score
		FROM knowledge_chunk
		WHERE embedding <|%d,40|> $emb
		ORDER BY score DESC
	`, topK)

	results, err := surrealdb.Query[[]models.ChunkHit](ctx, c.db, sql, map[string]any{
		"emb": embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.ChunkHit{}, nil
	}
	return (*results)[0].Result, nil
}

// GetArticles hydrates articles by id, keeping only active ones. Order of
// the returned slice is not significant.
func (c *Client) GetArticles(ctx context.Context, ids []string) ([]models.Article, error) {
	if len(ids) == 0 {
		return []models.Article{}, nil
	}

	records := make([]any, 0, len(ids))
	for _, id := range ids {
		records = append(records, id)
	}

	results, err := surrealdb.Query[[]models.Article](ctx, c.db, `
		SELECT * FROM article
		WHERE record::id(id) IN $ids AND active = true
	`, map[string]any{"ids": records})
	if err != nil {
		return nil, fmt.Errorf("get articles: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Article{}, nil
	}
	return (*results)[0].Result, nil
}
