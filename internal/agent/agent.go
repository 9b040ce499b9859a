// Package agent orchestrates one chat turn: session resolution, context
// compaction, tool planning and dispatch, response synthesis, persistence
// and follow-up derivation.
package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/complyward/advisor-go/internal/apperr"
	"github.com/complyward/advisor-go/internal/compact"
	"github.com/complyward/advisor-go/internal/llm"
	"github.com/complyward/advisor-go/internal/metrics"
	"github.com/complyward/advisor-go/internal/models"
	"github.com/complyward/advisor-go/internal/session"
	"github.com/complyward/advisor-go/internal/tools"
)

// Request stages, logged as each turn moves through the pipeline. Only
// awaiting_decision and responding failures are fatal for a turn;
// executing_tools and post_processing degrade in place.
const (
	stageAwaitingDecision = "awaiting_decision"
	stageExecutingTools   = "executing_tools"
	stageResponding       = "responding"
	stagePersisted        = "persisted"
	stagePostProcessing   = "post_processing"
)

// Agent is the conversation orchestrator.
type Agent struct {
	sessions   *session.Manager
	llm        llm.Client
	dispatcher *tools.Dispatcher
	log        *slog.Logger
}

// New creates an agent.
func New(sessions *session.Manager, client llm.Client, dispatcher *tools.Dispatcher, log *slog.Logger) *Agent {
	return &Agent{
		sessions:   sessions,
		llm:        client,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Chat serves one conversation turn. Each request is one logical call with
// no background tasks; within it, planned tool calls fan out concurrently
// and join before response synthesis.
func (a *Agent) Chat(ctx context.Context, workspaceID, userID string, req models.ChatRequest) (*models.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperr.New(apperr.CodeInternal, "Message must not be empty.")
	}

	var sessionID *string
	if req.SessionID != "" {
		sessionID = &req.SessionID
	}
	s, err := a.sessions.Resolve(ctx, workspaceID, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sid, err := models.RecordIDString(s.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Could not load the session.", err)
	}
	log := a.log.With("session_id", sid, "workspace_id", workspaceID)

	history := compact.Compact(a.sessions.History(ctx, s, compact.MaxEntries))
	userMessage := userContextMessage(req.Message, req.Context)

	log.Debug("turn stage", "stage", stageAwaitingDecision)
	decision, rawDecision, err := a.decide(ctx, history, userMessage)
	if err != nil {
		return nil, mapLLMError(err)
	}

	var answer string
	var invocations []tools.Invocation

	switch {
	case decision == nil:
		// Unparseable decision output degrades to a direct answer.
		log.Debug("decision output unparseable, using raw text as answer")
		answer = strings.TrimSpace(rawDecision)

	case decision.NeedsTools:
		log.Debug("turn stage", "stage", stageExecutingTools, "tools", len(decision.ToolCalls))
		invocations = a.dispatcher.Dispatch(ctx, tools.Request{
			WorkspaceID: workspaceID,
			UserID:      userID,
		}, decision.ToolCalls)

		log.Debug("turn stage", "stage", stageResponding)
		answer, err = a.respond(ctx, history, userMessage, decision.UserFacingMessage, invocations)
		if err != nil {
			return nil, mapLLMError(err)
		}

	case decision.UserFacingMessage != "":
		answer = decision.UserFacingMessage

	default:
		log.Debug("turn stage", "stage", stageResponding)
		answer, err = a.respondPlain(ctx, history, userMessage)
		if err != nil {
			return nil, mapLLMError(err)
		}
	}

	if err := a.sessions.AppendTurn(ctx, s, req.Message, answer); err != nil {
		return nil, err
	}
	log.Debug("turn stage", "stage", stagePersisted, "message_count", s.MessageCount)

	log.Debug("turn stage", "stage", stagePostProcessing)
	suggestions, actions := a.postProcess(ctx, req.Message, answer, invocations)

	return &models.ChatResponse{
		SessionID:   sid,
		Message:     answer,
		Suggestions: suggestions,
		Actions:     actions,
	}, nil
}

// decide runs the decision stage. A nil Decision with a nil error means the
// output could not be parsed and the raw text is the final answer.
func (a *Agent) decide(ctx context.Context, history []models.MemoryEntry, userMessage string) (*Decision, string, error) {
	messages := []llm.ChatMessage{{Role: "system", Content: decisionPrompt(a.dispatcher.Registry().Catalog())}}
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: userMessage})

	completion, err := a.llm.Complete(ctx, llm.CompleteRequest{
		Messages:    messages,
		Temperature: 0.1,
		MaxTokens:   1024,
		JSONOutput:  true,
		Op:          metrics.OpLLMDecision,
	})
	if err != nil {
		return nil, "", err
	}

	decision, err := parseDecision(completion.Text)
	if err != nil {
		a.log.Debug("decision parse failed, degrading to plain text", "error", err)
		return nil, completion.Text, nil
	}
	return decision, completion.Text, nil
}

// ListSessions returns the caller's sessions in a workspace.
func (a *Agent) ListSessions(ctx context.Context, workspaceID, userID string) ([]models.Session, error) {
	return a.sessions.List(ctx, workspaceID, userID)
}

// SessionHistory returns a session with its ordered messages.
func (a *Agent) SessionHistory(ctx context.Context, workspaceID, userID, sessionID string) (*models.Session, []models.Message, error) {
	return a.sessions.Messages(ctx, workspaceID, userID, sessionID)
}

// DeleteSession removes a session and its messages.
func (a *Agent) DeleteSession(ctx context.Context, workspaceID, userID, sessionID string) error {
	return a.sessions.Delete(ctx, workspaceID, userID, sessionID)
}

// mapLLMError classifies an inference failure for the caller. Rate limiting
// is distinguished so clients can back off; everything else is a retryable
// unavailability with a friendly message.
func mapLLMError(err error) error {
	if llm.IsRateLimited(err) {
		return apperr.Wrap(apperr.CodeRateLimited,
			"The AI service is receiving too many requests. Please try again in a moment.", err)
	}
	return apperr.Wrap(apperr.CodeAIUnavailable,
		"The AI service is temporarily unavailable. Please try again.", err)
}
