package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/complyward/advisor-go/internal/llm"
	"github.com/complyward/advisor-go/internal/metrics"
	"github.com/complyward/advisor-go/internal/models"
	"github.com/complyward/advisor-go/internal/tools"
)

const maxSuggestions = 3
const maxActions = 3

const postProcessSystemPrompt = `You derive follow-ups for Complyward's compliance advisor. Given a user message, the assistant's answer and the raw tool results of the turn, respond with a single JSON object:

{
  "suggestions": ["<follow-up question the user might ask next>", ...],
  "actions": [{"type": "<view_document|open_framework|open_control|open_task|open_report|navigate>", "target": "<identifier>", "label": "<short button label>"}, ...]
}

At most 3 suggestions and 3 actions. An action's target must be an identifier copied verbatim from the tool results; if the results contain no usable identifier, return no actions. Empty lists are fine.`

type postOutput struct {
	Suggestions []string        `json:"suggestions"`
	Actions     []models.Action `json:"actions"`
}

// identTokens picks the identifier-shaped tokens out of an action target.
var identTokens = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9_.:-]{2,}`)

// postProcess derives bounded follow-up suggestions and UI actions for a
// completed turn. Never fatal: any failure yields empty outputs and the
// parent request still succeeds.
func (a *Agent) postProcess(ctx context.Context, userMessage, assistantResponse string, invocations []tools.Invocation) ([]string, []models.Action) {
	raw, err := json.Marshal(invocations)
	if err != nil {
		a.log.Warn("post-processing skipped: unserializable tool results", "error", err)
		return nil, nil
	}

	input, err := json.Marshal(map[string]any{
		"user_message":       userMessage,
		"assistant_response": assistantResponse,
		"tools_used":         invocationNames(invocations),
		"tool_results":       json.RawMessage(raw),
	})
	if err != nil {
		return nil, nil
	}

	completion, err := a.llm.Complete(ctx, llm.CompleteRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: postProcessSystemPrompt},
			{Role: "user", Content: string(input)},
		},
		Temperature: 0.3,
		MaxTokens:   512,
		JSONOutput:  true,
		Op:          metrics.OpLLMPostProcess,
	})
	if err != nil {
		a.log.Warn("post-processing call failed, returning empty outputs", "error", err)
		return nil, nil
	}

	obj, ok := extractJSONObject(completion.Text)
	if !ok {
		a.log.Warn("post-processing output had no JSON object")
		return nil, nil
	}
	var out postOutput
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		a.log.Warn("post-processing output failed to parse", "error", err)
		return nil, nil
	}

	suggestions := make([]string, 0, maxSuggestions)
	for _, s := range out.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
		if len(suggestions) == maxSuggestions {
			break
		}
	}

	return suggestions, groundActions(out.Actions, string(raw))
}

// groundActions enforces the grounding contract: every identifier-shaped
// token in an action's target must appear verbatim in the raw tool results
// of the turn. Ungrounded actions are dropped, never repaired.
func groundActions(actions []models.Action, raw string) []models.Action {
	grounded := make([]models.Action, 0, maxActions)
	for _, action := range actions {
		if action.Type == "" || action.Target == "" {
			continue
		}
		tokens := identTokens.FindAllString(action.Target, -1)
		if len(tokens) == 0 {
			continue
		}
		ok := true
		for _, token := range tokens {
			if !strings.Contains(raw, token) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		grounded = append(grounded, action)
		if len(grounded) == maxActions {
			break
		}
	}
	return grounded
}

func invocationNames(invocations []tools.Invocation) []string {
	names := make([]string, len(invocations))
	for i, inv := range invocations {
		names[i] = inv.Name
	}
	return names
}
