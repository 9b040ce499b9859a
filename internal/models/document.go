package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Document is an uploaded compliance document as this core reads it.
// Ingestion and analysis live in external domain services.
type Document struct {
	ID          surrealmodels.RecordID `json:"id"`
	WorkspaceID string                 `json:"workspace_id"`
	Filename    string                 `json:"filename"`
	ContentType string                 `json:"content_type"`
	Status      string                 `json:"status"`
	UploadedBy  string                 `json:"uploaded_by"`
	CreatedAt   time.Time              `json:"created_at"`
}
