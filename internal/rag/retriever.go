// Package rag implements the knowledge retriever: embed the query, search
// the vector index, hydrate matching articles and re-rank them.
package rag

import (
	"context"
	"log/slog"
	"sort"

	"github.com/complyward/advisor-go/internal/apperr"
	"github.com/complyward/advisor-go/internal/models"
)

const (
	// topKDefault is the neighbor count for unfiltered searches.
	topKDefault = 5

	// topKFiltered over-fetches when a framework filter is active; results
	// are filtered by metadata and truncated back to topKDefault.
	topKFiltered = 10
)

// Embedder generates a fixed-dimension vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index is the vector index + article store surface the retriever needs.
type Index interface {
	SearchChunks(ctx context.Context, embedding []float32, topK int) ([]models.ChunkHit, error)
	GetArticles(ctx context.Context, ids []string) ([]models.Article, error)
}

// Retriever answers knowledge queries against the article index.
type Retriever struct {
	embedder Embedder
	index    Index
	logger   *slog.Logger
}

// New creates a retriever.
func New(embedder Embedder, index Index, logger *slog.Logger) *Retriever {
	return &Retriever{embedder: embedder, index: index, logger: logger}
}

// Retrieve embeds the query, searches the index and hydrates the matching
// articles. Regulatory answers must never be synthesized purely from the
// model's parametric memory, so embedding or index failure returns an
// explicit unavailable error rather than a silent empty result.
func (r *Retriever) Retrieve(ctx context.Context, query string, frameworkFilter *string) ([]models.ScoredArticle, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.logger.Error("query embedding failed", "error", err)
		return nil, apperr.Wrap(apperr.CodeRetrievalUnavailable,
			"The knowledge base is temporarily unavailable.", err)
	}

	topK := topKDefault
	if frameworkFilter != nil {
		topK = topKFiltered
	}

	hits, err := r.index.SearchChunks(ctx, vector, topK)
	if err != nil {
		r.logger.Error("vector search failed", "error", err)
		return nil, apperr.Wrap(apperr.CodeRetrievalUnavailable,
			"The knowledge base is temporarily unavailable.", err)
	}

	if frameworkFilter != nil {
		filtered := hits[:0]
		for _, hit := range hits {
			if hit.FrameworkID != nil && *hit.FrameworkID == *frameworkFilter {
				filtered = append(filtered, hit)
			}
		}
		hits = filtered
		if len(hits) > topKDefault {
			hits = hits[:topKDefault]
		}
	}

	if len(hits) == 0 {
		return []models.ScoredArticle{}, nil
	}

	// Best score per article; a long article can match through several chunks
	bestScore := make(map[string]float64, len(hits))
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		if score, seen := bestScore[hit.ArticleID]; !seen || hit.Score > score {
			if !seen {
				ids = append(ids, hit.ArticleID)
			}
			bestScore[hit.ArticleID] = hit.Score
		}
	}

	articles, err := r.index.GetArticles(ctx, ids)
	if err != nil {
		r.logger.Error("article hydration failed", "error", err)
		return nil, apperr.Wrap(apperr.CodeRetrievalUnavailable,
			"The knowledge base is temporarily unavailable.", err)
	}

	// The index does not guarantee post-filter order; re-rank by score
	scored := make([]models.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		id, err := models.RecordIDString(article.ID)
		if err != nil {
			r.logger.Warn("skipping article with non-string id", "error", err)
			continue
		}
		scored = append(scored, models.ScoredArticle{
			Article: article,
			Score:   bestScore[id],
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored, nil
}
