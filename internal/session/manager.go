// Package session owns conversation sessions: tenant access checks,
// creation with a paired turn-memory handle, durable turn persistence and
// auto-titling.
package session

import (
	"context"
	"log/slog"

	"github.com/complyward/advisor-go/internal/apperr"
	"github.com/complyward/advisor-go/internal/memory"
	"github.com/complyward/advisor-go/internal/models"
)

// Store is the durable session store the manager needs.
type Store interface {
	MemberRole(ctx context.Context, workspaceID, userID string) (*models.Role, error)
	CreateSession(ctx context.Context, workspaceID, userID, memoryHandle string) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListSessions(ctx context.Context, workspaceID, userID string) ([]models.Session, error)
	SetSessionTitle(ctx context.Context, id, title string) error
	TouchSessionAfterTurn(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	AppendMessages(ctx context.Context, sessionID, userText, assistantText string) error
	ListMessages(ctx context.Context, sessionID string) ([]models.Message, error)
}

// Manager mediates all session mutations. Sessions are mutated here and
// nowhere else.
type Manager struct {
	store  Store
	memory memory.Store
	log    *slog.Logger
}

// NewManager creates a session manager.
func NewManager(store Store, mem memory.Store, log *slog.Logger) *Manager {
	return &Manager{store: store, memory: mem, log: log}
}

// Resolve verifies workspace membership and loads or creates the session
// for a turn. With a session id it loads that session, reporting
// SESSION_NOT_FOUND for absent, cross-tenant or foreign sessions alike so
// existence never leaks across tenants. Without one it creates a session
// together with a fresh turn-memory handle; the handle is assigned exactly
// once and never reassigned.
func (m *Manager) Resolve(ctx context.Context, workspaceID, userID string, sessionID *string) (*models.Session, error) {
	if _, err := m.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	if sessionID != nil && *sessionID != "" {
		s, err := m.store.GetSession(ctx, *sessionID)
		if err != nil {
			return nil, apperr.Wrap(apperr.CodeInternal, "Could not load the session.", err)
		}
		if s == nil || s.WorkspaceID != workspaceID || s.UserID != userID {
			return nil, apperr.New(apperr.CodeSessionNotFound, "Session not found.")
		}
		return s, nil
	}

	handle, err := m.memory.CreateTimeline(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeMemoryError, "Could not start a new conversation.", err)
	}
	s, err := m.store.CreateSession(ctx, workspaceID, userID, handle)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Could not start a new conversation.", err)
	}
	return s, nil
}

// AppendTurn persists one completed turn. The durable message writes must
// succeed or the turn fails; turn-memory writes afterwards are best-effort
// and only logged on failure, since availability of the visible
// conversation outranks durability of the memory side-channel.
func (m *Manager) AppendTurn(ctx context.Context, s *models.Session, userText, assistantText string) error {
	sessionID, err := models.RecordIDString(s.ID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Could not save the conversation.", err)
	}

	if err := m.store.AppendMessages(ctx, sessionID, userText, assistantText); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Could not save the conversation.", err)
	}

	if s.MessageCount == 0 && s.Title == nil {
		title := DeriveTitle(userText)
		if err := m.store.SetSessionTitle(ctx, sessionID, title); err != nil {
			m.log.Warn("failed to set session title", "session_id", sessionID, "error", err)
		} else {
			s.Title = &title
		}
	}

	for _, entry := range []models.MemoryEntry{
		{Content: userText, Key: models.MemoryKeyUser},
		{Content: assistantText, Key: models.MemoryKeyAssistant},
	} {
		if err := m.memory.Write(ctx, s.MemoryHandle, entry); err != nil {
			m.log.Warn("turn-memory write failed, continuity degrades",
				"session_id", sessionID, "key", entry.Key, "error", err)
		}
	}

	if err := m.store.TouchSessionAfterTurn(ctx, sessionID); err != nil {
		m.log.Warn("failed to touch session after turn", "session_id", sessionID, "error", err)
	}
	s.MessageCount += 2

	return nil
}

// History returns recent turn-memory entries for a session, oldest first.
// A read failure degrades to an empty history rather than failing the turn.
func (m *Manager) History(ctx context.Context, s *models.Session, mostRecent int) []models.MemoryEntry {
	entries, err := m.memory.Read(ctx, s.MemoryHandle, mostRecent)
	if err != nil {
		m.log.Warn("turn-memory read failed, continuing without history",
			"session_id", models.MustRecordIDString(s.ID), "error", err)
		return nil
	}
	return entries
}

// List returns the caller's sessions in a workspace, most recent activity
// first.
func (m *Manager) List(ctx context.Context, workspaceID, userID string) ([]models.Session, error) {
	if _, err := m.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	sessions, err := m.store.ListSessions(ctx, workspaceID, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "Could not list sessions.", err)
	}
	return sessions, nil
}

// Messages returns a session together with its ordered messages.
func (m *Manager) Messages(ctx context.Context, workspaceID, userID, sessionID string) (*models.Session, []models.Message, error) {
	s, err := m.Resolve(ctx, workspaceID, userID, &sessionID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := m.store.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.CodeInternal, "Could not load the conversation.", err)
	}
	return s, messages, nil
}

// Delete removes a session and cascades its messages. The session owner
// may always delete it; workspace admins and owners may delete any session
// in their workspace.
func (m *Manager) Delete(ctx context.Context, workspaceID, userID, sessionID string) error {
	role, err := m.requireMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}

	s, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Could not load the session.", err)
	}
	if s == nil || s.WorkspaceID != workspaceID {
		return apperr.New(apperr.CodeSessionNotFound, "Session not found.")
	}
	if s.UserID != userID && !role.CanDeleteSessions() {
		return apperr.New(apperr.CodeAccessDenied, "You are not allowed to delete this session.")
	}

	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return apperr.Wrap(apperr.CodeInternal, "Could not delete the session.", err)
	}
	return nil
}

func (m *Manager) requireMember(ctx context.Context, workspaceID, userID string) (models.Role, error) {
	role, err := m.store.MemberRole(ctx, workspaceID, userID)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "Could not verify workspace access.", err)
	}
	if role == nil {
		return "", apperr.New(apperr.CodeAccessDenied, "You do not have access to this workspace.")
	}
	return *role, nil
}
