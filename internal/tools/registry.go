package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Request carries the tenant scope of the turn being served. Every handler
// must scope its reads and calls by WorkspaceID.
type Request struct {
	WorkspaceID string
	UserID      string
}

// Args is the decoded argument object of one tool call.
type Args map[string]any

// String returns the named argument as a string, or "" when absent.
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the named argument as an int, or 0 when absent. JSON numbers
// decode as float64.
func (a Args) Int(key string) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Handler executes one tool call.
type Handler func(ctx context.Context, req Request, args Args) (any, error)

// Tool is one registered domain tool.
type Tool struct {
	Name        string
	Description string
	// ArgSpec is a one-line argument schema shown to the decision model,
	// e.g. `{"document": "<id or filename>"}`.
	ArgSpec string
	Run     Handler
}

// Registry maps tool names to handlers.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry with all tools registered against deps.
func NewRegistry(deps *Dependencies) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	registerAll(r, deps)
	return r
}

// add registers a tool, panicking on duplicate names. Registration happens
// once at startup so a panic is a programming error surfaced immediately.
func (r *Registry) add(t Tool) {
	if _, exists := r.tools[t.Name]; exists {
		panic(fmt.Sprintf("duplicate tool name: %s", t.Name))
	}
	r.tools[t.Name] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Catalog renders the tool catalog for the decision prompt: one line per
// tool with name, argument schema and purpose, in stable alphabetical order.
func (r *Registry) Catalog() string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		t := r.tools[name]
		args := t.ArgSpec
		if args == "" {
			args = "{}"
		}
		fmt.Fprintf(&sb, "- %s %s — %s\n", t.Name, args, t.Description)
	}
	return sb.String()
}
