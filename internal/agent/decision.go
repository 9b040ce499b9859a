package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/complyward/advisor-go/internal/apperr"
	"github.com/complyward/advisor-go/internal/tools"
)

// Decision is the structured output of the decision stage. It exists only
// within one request and is never persisted.
type Decision struct {
	NeedsTools        bool         `json:"needs_tools"`
	ToolCalls         []tools.Call `json:"tool_calls"`
	Reasoning         string       `json:"reasoning"`
	UserFacingMessage string       `json:"user_facing_message"`
}

const decisionSystemPrompt = `You are the planning stage of Complyward's compliance advisor. Decide whether answering the user requires calling workspace tools, and respond with a single JSON object:

{
  "needs_tools": <bool>,
  "tool_calls": [{"name": "<tool>", "arguments": {...}}],
  "reasoning": "<one sentence>",
  "user_facing_message": "<what to tell the user>"
}

Rules:
- Use tools for anything about THIS workspace's actual data: scores, controls, documents, tasks, evidence, reports.
- Answer directly (needs_tools=false) for greetings, generic explanations of compliance concepts, and follow-ups already answered by earlier context. Put the full answer in user_facing_message.
- When tools are needed, user_facing_message is a short acknowledgment; the real answer is synthesized later from the tool results.
- Use search_knowledge for regulatory or framework questions so answers are grounded in the knowledge base.
- Never invent tool names or arguments not listed in the catalog.

Available tools:
%s
Examples:

User: "What is my compliance score?"
{"needs_tools": true, "tool_calls": [{"name": "get_compliance_score", "arguments": {}}], "reasoning": "The score lives in workspace data.", "user_facing_message": "Let me check your compliance score."}

User: "Analyze security-policy.pdf and tell me what's missing"
{"needs_tools": true, "tool_calls": [{"name": "analyze_document", "arguments": {"document": "security-policy.pdf"}}], "reasoning": "Document analysis requires the analysis service.", "user_facing_message": "Analyzing your document now."}

User: "What does SOC 2 stand for?"
{"needs_tools": false, "tool_calls": [], "reasoning": "General knowledge, no workspace data involved.", "user_facing_message": "SOC 2 stands for Service Organization Control 2, an auditing framework developed by the AICPA..."}`

// decisionPrompt renders the decision system prompt over the tool catalog.
func decisionPrompt(catalog string) string {
	return fmt.Sprintf(decisionSystemPrompt, catalog)
}

// parseDecision decodes the decision stage's output. Models sometimes
// prepend prose, so the first balanced JSON object is extracted before
// decoding. The needs_tools flag is reconciled with the actual plan: a
// claimed plan with no valid calls is treated as a direct answer.
func parseDecision(raw string) (*Decision, error) {
	obj, ok := extractJSONObject(raw)
	if !ok {
		return nil, apperr.New(apperr.CodeDecisionParse, "no JSON object in decision output")
	}

	var d Decision
	if err := json.Unmarshal([]byte(obj), &d); err != nil {
		return nil, apperr.Wrap(apperr.CodeDecisionParse, "malformed decision JSON", err)
	}

	valid := d.ToolCalls[:0]
	for _, call := range d.ToolCalls {
		if strings.TrimSpace(call.Name) != "" {
			valid = append(valid, call)
		}
	}
	d.ToolCalls = valid

	if len(d.ToolCalls) == 0 {
		d.NeedsTools = false
	}
	return &d, nil
}

// extractJSONObject returns the first balanced top-level {...} substring,
// tolerating braces inside JSON strings.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
