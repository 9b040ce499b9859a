package agent

import (
	"context"
	"fmt"

	"github.com/complyward/advisor-go/internal/llm"
	"github.com/complyward/advisor-go/internal/metrics"
	"github.com/complyward/advisor-go/internal/models"
	"github.com/complyward/advisor-go/internal/tools"
)

const respondSystemPrompt = `You are Complyward's compliance advisor. Synthesize one clear, comprehensive answer for the user from the tool results below. Cite concrete figures and identifiers from the results. If a tool reported an error, say plainly that the data could not be retrieved right now; never substitute invented numbers for missing results.`

const plainSystemPrompt = `You are Complyward's compliance advisor, a knowledgeable assistant for security and compliance teams. Answer conversationally and concretely. If a question needs this workspace's actual data that you do not have, say so rather than guessing.`

// respond runs the response generation call over the executed tool plan.
// Only invoked when tools ran; simple turns keep the decision stage's own
// answer and skip this round trip.
func (a *Agent) respond(ctx context.Context, history []models.MemoryEntry, userMessage, ack string, invocations []tools.Invocation) (string, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: respondSystemPrompt}}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})
	if ack != "" {
		messages = append(messages, llm.ChatMessage{Role: "assistant", Content: ack})
	}
	for _, inv := range invocations {
		messages = append(messages, llm.ChatMessage{Role: "user", Content: inv.Summary()})
	}
	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: "Using the tool results above, give me one complete answer to my question.",
	})

	completion, err := a.llm.Complete(ctx, llm.CompleteRequest{
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2048,
		Op:          metrics.OpLLMRespond,
	})
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

// respondPlain handles the direct-answer path when the decision stage
// produced no user-facing text of its own.
func (a *Agent) respondPlain(ctx context.Context, history []models.MemoryEntry, userMessage string) (string, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: plainSystemPrompt}}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})

	completion, err := a.llm.Complete(ctx, llm.CompleteRequest{
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2048,
		Op:          metrics.OpLLMRespond,
	})
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

// historyMessages converts compacted memory entries into chat messages.
// The synthetic digest becomes a system message ahead of the verbatim tail.
func historyMessages(history []models.MemoryEntry) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(history))
	for _, entry := range history {
		role := "user"
		switch entry.Key {
		case models.MemoryKeyAssistant:
			role = "assistant"
		case models.MemoryKeySystem:
			role = "system"
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: entry.Content})
	}
	return messages
}

// userContextMessage folds optional caller-supplied page context into the
// current message so the model sees where the user is in the product.
func userContextMessage(message, pageContext string) string {
	if pageContext == "" {
		return message
	}
	return fmt.Sprintf("%s\n\n[Current page context: %s]", message, pageContext)
}
