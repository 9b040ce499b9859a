// Package tools provides the domain tool registry and the concurrent
// dispatcher that executes a decision plan with per-tool failure isolation.
package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/complyward/advisor-go/internal/metrics"
	"github.com/complyward/advisor-go/internal/models"
)

// Store is the subset of the durable store the tools need.
type Store interface {
	GetDocument(ctx context.Context, workspaceID, id string) (*models.Document, error)
	FindDocumentByFilename(ctx context.Context, workspaceID, filename string) (*models.Document, error)
	SearchDocumentsByEmbedding(ctx context.Context, workspaceID string, embedding []float32, limit int) ([]models.Document, error)
	ListDocuments(ctx context.Context, workspaceID string, limit int) ([]models.Document, error)
}

// Knowledge is the retrieval surface backing the search_knowledge tool.
type Knowledge interface {
	Retrieve(ctx context.Context, query string, frameworkFilter *string) ([]models.ScoredArticle, error)
}

// Embedder produces query vectors for semantic document lookup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Domain is the uniform tool-call contract of the external domain services
// (compliance scoring, reporting, tasks, notifications). The business logic
// behind each method lives outside this core.
type Domain interface {
	Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Store     Store
	Knowledge Knowledge
	Embedder  Embedder
	Domain    Domain
	Logger    *slog.Logger
	Metrics   *metrics.Collector
}
