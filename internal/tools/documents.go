package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/complyward/advisor-go/internal/models"
)

// documentExtensions are the known filename suffixes. An argument ending in
// one of these is treated as a filename rather than a durable id.
var documentExtensions = []string{".pdf", ".docx", ".doc", ".txt", ".md", ".csv", ".xlsx"}

// looksLikeFilename reports whether the reference carries a known document
// extension.
func looksLikeFilename(ref string) bool {
	lower := strings.ToLower(ref)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// resolveDocument resolves a document reference that is either a durable id
// or a bare filename. A filename triggers a semantic lookup that prefers an
// exact case-insensitive filename match over the top similarity hit.
func resolveDocument(ctx context.Context, deps *Dependencies, req Request, ref string) (*models.Document, error) {
	if ref == "" {
		return nil, fmt.Errorf("missing required argument %q", "document")
	}

	if !looksLikeFilename(ref) {
		doc, err := deps.Store.GetDocument(ctx, req.WorkspaceID, ref)
		if err != nil {
			return nil, fmt.Errorf("look up document %s: %w", ref, err)
		}
		if doc == nil {
			return nil, fmt.Errorf("document %s not found", ref)
		}
		return doc, nil
	}

	exact, err := deps.Store.FindDocumentByFilename(ctx, req.WorkspaceID, ref)
	if err != nil {
		return nil, fmt.Errorf("look up document by filename: %w", err)
	}
	if exact != nil {
		return exact, nil
	}

	vector, err := deps.Embedder.Embed(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("embed filename for lookup: %w", err)
	}
	matches, err := deps.Store.SearchDocumentsByEmbedding(ctx, req.WorkspaceID, vector, 3)
	if err != nil {
		return nil, fmt.Errorf("semantic document lookup: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no document matching %q", ref)
	}
	return &matches[0], nil
}

// newAnalyzeDocumentHandler resolves the document reference, then hands the
// durable id to the external analysis service.
func newAnalyzeDocumentHandler(deps *Dependencies) Handler {
	return func(ctx context.Context, req Request, args Args) (any, error) {
		doc, err := resolveDocument(ctx, deps, req, args.String("document"))
		if err != nil {
			return nil, err
		}

		docID, err := models.RecordIDString(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve document id: %w", err)
		}

		params := map[string]any{
			"workspace_id": req.WorkspaceID,
			"user_id":      req.UserID,
			"document_id":  docID,
		}
		if framework := args.String("framework"); framework != "" {
			params["framework"] = framework
		}
		return deps.Domain.Call(ctx, "documents.analyze", params)
	}
}
