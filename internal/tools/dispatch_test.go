package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyward/advisor-go/internal/models"
)

type fakeStore struct {
	documents    map[string]*models.Document
	byFilename   map[string]*models.Document
	semanticHits []models.Document
}

func (f *fakeStore) GetDocument(ctx context.Context, workspaceID, id string) (*models.Document, error) {
	return f.documents[id], nil
}

func (f *fakeStore) FindDocumentByFilename(ctx context.Context, workspaceID, filename string) (*models.Document, error) {
	return f.byFilename[strings.ToLower(filename)], nil
}

func (f *fakeStore) SearchDocumentsByEmbedding(ctx context.Context, workspaceID string, embedding []float32, limit int) ([]models.Document, error) {
	return f.semanticHits, nil
}

func (f *fakeStore) ListDocuments(ctx context.Context, workspaceID string, limit int) ([]models.Document, error) {
	return nil, nil
}

type fakeDomain struct {
	mu      sync.Mutex
	calls   []string
	results map[string]json.RawMessage
	errs    map[string]error
}

func (f *fakeDomain) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()

	if err := f.errs[method]; err != nil {
		return nil, err
	}
	if res, ok := f.results[method]; ok {
		return res, nil
	}
	return json.RawMessage(`{"ok": true}`), nil
}

type fakeKnowledge struct {
	articles []models.ScoredArticle
	err      error
}

func (f *fakeKnowledge) Retrieve(ctx context.Context, query string, frameworkFilter *string) ([]models.ScoredArticle, error) {
	return f.articles, f.err
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, 384), nil
}

func doc(id, filename string) *models.Document {
	return &models.Document{
		ID:       surrealmodels.RecordID{Table: "document", ID: id},
		Filename: filename,
		Status:   "processed",
	}
}

func testDeps(domain *fakeDomain, store *fakeStore) *Dependencies {
	if store == nil {
		store = &fakeStore{}
	}
	return &Dependencies{
		Store:     store,
		Knowledge: &fakeKnowledge{},
		Embedder:  fixedEmbedder{},
		Domain:    domain,
		Logger:    slog.New(slog.DiscardHandler),
	}
}

func testRequest() Request {
	return Request{WorkspaceID: "ws-1", UserID: "user-1"}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	domain := &fakeDomain{
		results: map[string]json.RawMessage{
			"compliance.score": json.RawMessage(`{"score": 78}`),
		},
		errs: map[string]error{
			"tasks.list": errors.New("task service down"),
		},
	}
	deps := testDeps(domain, nil)
	d := NewDispatcher(NewRegistry(deps), deps)

	invocations := d.Dispatch(context.Background(), testRequest(), []Call{
		{Name: "get_compliance_score", Arguments: map[string]any{}},
		{Name: "list_tasks", Arguments: map[string]any{}},
	})

	require.Len(t, invocations, 2)

	assert.False(t, invocations[0].Failed())
	assert.Contains(t, invocations[0].Summary(), `"score":78`)

	assert.True(t, invocations[1].Failed())
	assert.Contains(t, invocations[1].Summary(), "Tool list_tasks failed")
}

func TestDispatchUnknownTool(t *testing.T) {
	deps := testDeps(&fakeDomain{}, nil)
	d := NewDispatcher(NewRegistry(deps), deps)

	invocations := d.Dispatch(context.Background(), testRequest(), []Call{
		{Name: "summon_auditor", Arguments: map[string]any{}},
	})

	require.Len(t, invocations, 1)
	assert.True(t, invocations[0].Failed())
	assert.Contains(t, invocations[0].Error, `unknown tool "summon_auditor"`)
}

func TestDispatchPreservesPlanOrder(t *testing.T) {
	deps := testDeps(&fakeDomain{}, nil)
	d := NewDispatcher(NewRegistry(deps), deps)

	calls := []Call{
		{Name: "get_compliance_status"},
		{Name: "list_frameworks"},
		{Name: "get_workspace_summary"},
	}
	invocations := d.Dispatch(context.Background(), testRequest(), calls)

	require.Len(t, invocations, 3)
	for i, call := range calls {
		assert.Equal(t, call.Name, invocations[i].Name)
	}
}

func TestDomainToolRequiredArguments(t *testing.T) {
	domain := &fakeDomain{}
	deps := testDeps(domain, nil)
	registry := NewRegistry(deps)

	tool, ok := registry.Get("get_control_status")
	require.True(t, ok)

	_, err := tool.Run(context.Background(), testRequest(), Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required argument "control"`)
	assert.Empty(t, domain.calls, "service must not be called with invalid arguments")
}

func TestDomainToolScopesWorkspace(t *testing.T) {
	var gotParams map[string]any
	domain := &fakeDomain{}
	deps := testDeps(domain, nil)
	deps.Domain = domainFunc(func(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
		gotParams = params
		return json.RawMessage(`{}`), nil
	})
	registry := NewRegistry(deps)

	tool, _ := registry.Get("get_compliance_status")
	_, err := tool.Run(context.Background(), testRequest(), Args{})
	require.NoError(t, err)
	assert.Equal(t, "ws-1", gotParams["workspace_id"])
}

type domainFunc func(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)

func (f domainFunc) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	return f(ctx, method, params)
}

func TestResolveDocumentByID(t *testing.T) {
	store := &fakeStore{documents: map[string]*models.Document{
		"doc-1": doc("doc-1", "policy.pdf"),
	}}
	deps := testDeps(&fakeDomain{}, store)

	got, err := resolveDocument(context.Background(), deps, testRequest(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "policy.pdf", got.Filename)
}

func TestResolveDocumentPrefersExactFilenameMatch(t *testing.T) {
	exact := doc("doc-2", "Security-Policy.PDF")
	store := &fakeStore{
		byFilename:   map[string]*models.Document{"security-policy.pdf": exact},
		semanticHits: []models.Document{*doc("doc-9", "security-policy-old.pdf")},
	}
	deps := testDeps(&fakeDomain{}, store)

	got, err := resolveDocument(context.Background(), deps, testRequest(), "security-policy.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Security-Policy.PDF", got.Filename, "exact case-insensitive match wins over similarity hit")
}

func TestResolveDocumentFallsBackToSemanticLookup(t *testing.T) {
	store := &fakeStore{
		semanticHits: []models.Document{*doc("doc-7", "soc2_report_2025.pdf")},
	}
	deps := testDeps(&fakeDomain{}, store)

	got, err := resolveDocument(context.Background(), deps, testRequest(), "soc2 report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "soc2_report_2025.pdf", got.Filename)
}

func TestResolveDocumentUnknownID(t *testing.T) {
	deps := testDeps(&fakeDomain{}, &fakeStore{})

	_, err := resolveDocument(context.Background(), deps, testRequest(), "doc-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLooksLikeFilename(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"policy.pdf", true},
		{"Policy.PDF", true},
		{"report.docx", true},
		{"notes.md", true},
		{"data.xlsx", true},
		{"doc-12345", false},
		{"9b2f1c4e-77aa-4b6e-9d3f-2f1f4a1b0c9d", false},
		{"pdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeFilename(tt.ref))
		})
	}
}

func TestRegistryCatalog(t *testing.T) {
	deps := testDeps(&fakeDomain{}, nil)
	registry := NewRegistry(deps)

	assert.GreaterOrEqual(t, registry.Len(), 25, "catalog should cover the domain tool surface")

	catalog := registry.Catalog()
	for _, name := range []string{"get_compliance_score", "analyze_document", "search_knowledge", "generate_report"} {
		assert.Contains(t, catalog, name)
	}

	// Stable order: lines sorted by tool name
	lines := strings.Split(strings.TrimSpace(catalog), "\n")
	require.Equal(t, registry.Len(), len(lines))
	for i := 1; i < len(lines); i++ {
		assert.True(t, lines[i-1] < lines[i], "catalog lines not sorted: %q before %q", lines[i-1], lines[i])
	}
}

func TestSearchKnowledgeToolPropagatesUnavailable(t *testing.T) {
	deps := testDeps(&fakeDomain{}, nil)
	deps.Knowledge = &fakeKnowledge{err: fmt.Errorf("knowledge base temporarily unavailable")}
	d := NewDispatcher(NewRegistry(deps), deps)

	invocations := d.Dispatch(context.Background(), testRequest(), []Call{
		{Name: "search_knowledge", Arguments: map[string]any{"query": "data retention"}},
	})

	require.Len(t, invocations, 1)
	assert.True(t, invocations[0].Failed())
	assert.Contains(t, invocations[0].Error, "temporarily unavailable")
}
