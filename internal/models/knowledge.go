package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Article is a knowledge-base article hydrated after a vector search.
type Article struct {
	ID          surrealmodels.RecordID `json:"id"`
	Title       string                 `json:"title"`
	Content     string                 `json:"content"`
	FrameworkID *string                `json:"framework_id,omitempty"`
	Active      bool                   `json:"active"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ChunkHit is one nearest-neighbor match from the vector index. Metadata
// carries the owning article id and optional framework tag.
type ChunkHit struct {
	ID          surrealmodels.RecordID `json:"id"`
	ArticleID   string                 `json:"article_id"`
	FrameworkID *string                `json:"framework_id,omitempty"`
	Score       float64                `json:"score"`
}

// ScoredArticle pairs a hydrated article with its best similarity score.
type ScoredArticle struct {
	Article Article `json:"article"`
	Score   float64 `json:"score"`
}
