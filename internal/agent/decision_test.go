package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyward/advisor-go/internal/apperr"
)

func TestParseDecisionPlainJSON(t *testing.T) {
	raw := `{"needs_tools": true, "tool_calls": [{"name": "get_compliance_score", "arguments": {}}], "reasoning": "score lives in workspace data", "user_facing_message": "Checking now."}`

	d, err := parseDecision(raw)
	require.NoError(t, err)
	assert.True(t, d.NeedsTools)
	require.Len(t, d.ToolCalls, 1)
	assert.Equal(t, "get_compliance_score", d.ToolCalls[0].Name)
	assert.Equal(t, "Checking now.", d.UserFacingMessage)
}

func TestParseDecisionToleratesLeadingProse(t *testing.T) {
	raw := "Sure, here is my plan:\n\n" +
		`{"needs_tools": true, "tool_calls": [{"name": "list_frameworks", "arguments": {}}], "reasoning": "", "user_facing_message": "One moment."}` +
		"\n\nLet me know if you need anything else."

	d, err := parseDecision(raw)
	require.NoError(t, err)
	assert.True(t, d.NeedsTools)
	require.Len(t, d.ToolCalls, 1)
	assert.Equal(t, "list_frameworks", d.ToolCalls[0].Name)
}

func TestParseDecisionNoJSON(t *testing.T) {
	_, err := parseDecision("I'd be happy to help you with your compliance questions!")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDecisionParse, apperr.CodeOf(err))
}

func TestParseDecisionMalformedJSON(t *testing.T) {
	_, err := parseDecision(`{"needs_tools": "maybe", "tool_calls": 7}`)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDecisionParse, apperr.CodeOf(err))
}

func TestParseDecisionEmptyPlanClearsNeedsTools(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "empty list",
			raw:  `{"needs_tools": true, "tool_calls": [], "user_facing_message": "Hello!"}`,
		},
		{
			name: "missing list",
			raw:  `{"needs_tools": true, "user_facing_message": "Hello!"}`,
		},
		{
			name: "nameless calls only",
			raw:  `{"needs_tools": true, "tool_calls": [{"name": "", "arguments": {}}], "user_facing_message": "Hello!"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := parseDecision(tt.raw)
			require.NoError(t, err)
			assert.False(t, d.NeedsTools, "a claimed plan with no valid calls is a direct answer")
			assert.Empty(t, d.ToolCalls)
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "nested objects",
			input: `prefix {"a": {"b": {"c": 3}}} suffix`,
			want:  `{"a": {"b": {"c": 3}}}`,
			ok:    true,
		},
		{
			name:  "braces inside strings",
			input: `{"msg": "use {curly} braces", "n": 1}`,
			want:  `{"msg": "use {curly} braces", "n": 1}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"msg": "she said \"hi {there}\""}`,
			want:  `{"msg": "she said \"hi {there}\""}`,
			ok:    true,
		},
		{
			name:  "unbalanced",
			input: `{"a": 1`,
			ok:    false,
		},
		{
			name:  "no object",
			input: "just some prose",
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
