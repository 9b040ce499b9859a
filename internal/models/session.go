// Package models defines data structures for the advisor conversation core.
package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Role is a workspace membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// CanDeleteSessions reports whether the role may delete sessions it does
// not own.
func (r Role) CanDeleteSessions() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Session is a persistent conversation session. It is mutated only by the
// session manager; messageCount increases by exactly 2 per completed turn.
type Session struct {
	ID             surrealmodels.RecordID `json:"id"`
	WorkspaceID    string                 `json:"workspace_id"`
	UserID         string                 `json:"user_id"`
	MemoryHandle   string                 `json:"memory_handle"`
	Title          *string                `json:"title,omitempty"`
	StartedAt      time.Time              `json:"started_at"`
	LastActivityAt time.Time              `json:"last_activity_at"`
	MessageCount   int                    `json:"message_count"`
}

// MessageRole is the author role of a conversation message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a single conversation message. Append-only, immutable after
// creation, ordered by CreatedAt.
type Message struct {
	ID        surrealmodels.RecordID `json:"id"`
	Session   surrealmodels.RecordID `json:"session"`
	Role      MessageRole            `json:"role"`
	Content   string                 `json:"content"`
	CreatedAt time.Time              `json:"created_at"`
}
