package models

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Context   string `json:"context,omitempty"`
}

// Action is a UI action descriptor derived by the post-processor. Target may
// only embed identifiers present verbatim in that turn's raw tool results.
type Action struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// ChatResponse is the output contract of one completed turn.
type ChatResponse struct {
	SessionID   string   `json:"session_id"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Actions     []Action `json:"actions"`
}

// SessionSummary is the list-view projection of a session.
type SessionSummary struct {
	ID             string  `json:"id"`
	Title          *string `json:"title,omitempty"`
	StartedAt      string  `json:"started_at"`
	LastActivityAt string  `json:"last_activity_at"`
	MessageCount   int     `json:"message_count"`
}

// MessageView is the API projection of a conversation message.
type MessageView struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"created_at"`
}

// SessionHistory is the API response for one session with its messages.
type SessionHistory struct {
	Session  SessionSummary `json:"session"`
	Messages []MessageView  `json:"messages"`
}
