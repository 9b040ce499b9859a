package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyward/advisor-go/internal/apperr"
	"github.com/complyward/advisor-go/internal/models"
)

type fakeStore struct {
	roles    map[string]models.Role // "workspace/user" -> role
	sessions map[string]models.Session
	messages map[string][]models.Message
	titles   map[string]string

	appendErr error
	touchErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roles:    map[string]models.Role{},
		sessions: map[string]models.Session{},
		messages: map[string][]models.Message{},
		titles:   map[string]string{},
	}
}

func (f *fakeStore) MemberRole(ctx context.Context, workspaceID, userID string) (*models.Role, error) {
	role, ok := f.roles[workspaceID+"/"+userID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (f *fakeStore) CreateSession(ctx context.Context, workspaceID, userID, memoryHandle string) (*models.Session, error) {
	id := fmt.Sprintf("session-%d", len(f.sessions)+1)
	s := models.Session{
		ID:           surrealmodels.RecordID{Table: "session", ID: id},
		WorkspaceID:  workspaceID,
		UserID:       userID,
		MemoryHandle: memoryHandle,
		StartedAt:    time.Now().UTC(),
	}
	f.sessions[id] = s
	out := s
	return &out, nil
}

func (f *fakeStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	out := s
	return &out, nil
}

func (f *fakeStore) ListSessions(ctx context.Context, workspaceID, userID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range f.sessions {
		if s.WorkspaceID == workspaceID && s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SetSessionTitle(ctx context.Context, id, title string) error {
	if _, exists := f.titles[id]; !exists {
		f.titles[id] = title
		if s, ok := f.sessions[id]; ok {
			s.Title = &title
			f.sessions[id] = s
		}
	}
	return nil
}

func (f *fakeStore) TouchSessionAfterTurn(ctx context.Context, id string) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	if s, ok := f.sessions[id]; ok {
		s.MessageCount += 2
		s.LastActivityAt = time.Now().UTC()
		f.sessions[id] = s
	}
	return nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeStore) AppendMessages(ctx context.Context, sessionID, userText, assistantText string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages[sessionID] = append(f.messages[sessionID],
		models.Message{Role: models.MessageRoleUser, Content: userText},
		models.Message{Role: models.MessageRoleAssistant, Content: assistantText},
	)
	return nil
}

func (f *fakeStore) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	return f.messages[sessionID], nil
}

type fakeMemory struct {
	handles  int
	writes   map[string][]models.MemoryEntry
	writeErr error
	readErr  error
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{writes: map[string][]models.MemoryEntry{}}
}

func (f *fakeMemory) CreateTimeline(ctx context.Context) (string, error) {
	f.handles++
	return fmt.Sprintf("timeline-%d", f.handles), nil
}

func (f *fakeMemory) Read(ctx context.Context, handle string, mostRecent int) ([]models.MemoryEntry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	entries := f.writes[handle]
	if len(entries) > mostRecent {
		entries = entries[len(entries)-mostRecent:]
	}
	return entries, nil
}

func (f *fakeMemory) Write(ctx context.Context, handle string, entry models.MemoryEntry) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes[handle] = append(f.writes[handle], entry)
	return nil
}

func newTestManager(store *fakeStore, mem *fakeMemory) *Manager {
	return NewManager(store, mem, slog.New(slog.DiscardHandler))
}

func TestResolveDeniesNonMembers(t *testing.T) {
	m := newTestManager(newFakeStore(), newFakeMemory())

	_, err := m.Resolve(context.Background(), "ws-1", "stranger", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeAccessDenied, apperr.CodeOf(err))
}

func TestResolveCreatesSessionWithMemoryHandle(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	mem := newFakeMemory()
	m := newTestManager(store, mem)

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "timeline-1", s.MemoryHandle)
	assert.Nil(t, s.Title)
	assert.Zero(t, s.MessageCount)
}

func TestResolveLoadsExistingSession(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	mem := newFakeMemory()
	m := newTestManager(store, mem)

	created, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)

	id := models.MustRecordIDString(created.ID)
	loaded, err := m.Resolve(context.Background(), "ws-1", "user-1", &id)
	require.NoError(t, err)
	assert.Equal(t, created.MemoryHandle, loaded.MemoryHandle, "handle is assigned once and never reassigned")
}

func TestResolveHidesForeignSessions(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	store.roles["ws-1/user-2"] = models.RoleMember
	store.roles["ws-2/user-1"] = models.RoleMember
	mem := newFakeMemory()
	m := newTestManager(store, mem)

	owned, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)
	id := models.MustRecordIDString(owned.ID)

	tests := []struct {
		name        string
		workspaceID string
		userID      string
		sessionID   string
	}{
		{"missing session", "ws-1", "user-1", "session-404"},
		{"cross tenant", "ws-2", "user-1", id},
		{"another member's session", "ws-1", "user-2", id},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Resolve(context.Background(), tt.workspaceID, tt.userID, &tt.sessionID)
			require.Error(t, err)
			assert.Equal(t, apperr.CodeSessionNotFound, apperr.CodeOf(err))
		})
	}
}

func TestAppendTurnPersistsAndTitles(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	mem := newFakeMemory()
	m := newTestManager(store, mem)

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)
	id := models.MustRecordIDString(s.ID)

	err = m.AppendTurn(context.Background(), s, "What is my compliance score?", "Your score is 78%.")
	require.NoError(t, err)

	assert.Equal(t, 2, s.MessageCount)
	assert.Equal(t, "What is my compliance score", store.titles[id])
	require.Len(t, store.messages[id], 2)
	assert.Equal(t, models.MessageRoleUser, store.messages[id][0].Role)
	assert.Equal(t, models.MessageRoleAssistant, store.messages[id][1].Role)

	entries := mem.writes[s.MemoryHandle]
	require.Len(t, entries, 2)
	assert.Equal(t, models.MemoryKeyUser, entries[0].Key)
	assert.Equal(t, models.MemoryKeyAssistant, entries[1].Key)
}

func TestAppendTurnTitleSetOnlyOnce(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	m := newTestManager(store, newFakeMemory())

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)
	id := models.MustRecordIDString(s.ID)

	require.NoError(t, m.AppendTurn(context.Background(), s, "First question", "First answer"))
	require.NoError(t, m.AppendTurn(context.Background(), s, "Second question", "Second answer"))

	assert.Equal(t, "First question", store.titles[id])
	assert.Equal(t, 4, s.MessageCount)
}

func TestAppendTurnMessageCountGrowsByTwoPerTurn(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	m := newTestManager(store, newFakeMemory())

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)

	const turns = 5
	for i := 0; i < turns; i++ {
		require.NoError(t, m.AppendTurn(context.Background(), s, "q", "a"))
	}
	assert.Equal(t, 2*turns, s.MessageCount)
}

func TestAppendTurnFailsWhenDurableWriteFails(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	store.appendErr = errors.New("db down")
	m := newTestManager(store, newFakeMemory())

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)

	err = m.AppendTurn(context.Background(), s, "q", "a")
	require.Error(t, err)
	assert.Zero(t, s.MessageCount)
}

func TestAppendTurnSurvivesMemoryWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	mem := newFakeMemory()
	mem.writeErr = errors.New("memory store unreachable")
	m := newTestManager(store, mem)

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)

	err = m.AppendTurn(context.Background(), s, "q", "a")
	require.NoError(t, err, "memory writes are best-effort")
	assert.Equal(t, 2, s.MessageCount)
	require.Len(t, store.messages[models.MustRecordIDString(s.ID)], 2)
}

func TestHistoryDegradesOnReadFailure(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/user-1"] = models.RoleMember
	mem := newFakeMemory()
	mem.readErr = errors.New("memory store unreachable")
	m := newTestManager(store, mem)

	s, err := m.Resolve(context.Background(), "ws-1", "user-1", nil)
	require.NoError(t, err)

	assert.Empty(t, m.History(context.Background(), s, 100))
}

func TestDeleteRequiresOwnershipOrAdmin(t *testing.T) {
	store := newFakeStore()
	store.roles["ws-1/owner"] = models.RoleOwner
	store.roles["ws-1/admin"] = models.RoleAdmin
	store.roles["ws-1/member"] = models.RoleMember
	store.roles["ws-1/other"] = models.RoleMember
	m := newTestManager(store, newFakeMemory())

	newSession := func(t *testing.T) string {
		t.Helper()
		s, err := m.Resolve(context.Background(), "ws-1", "member", nil)
		require.NoError(t, err)
		return models.MustRecordIDString(s.ID)
	}

	t.Run("owner of the session may delete", func(t *testing.T) {
		id := newSession(t)
		require.NoError(t, m.Delete(context.Background(), "ws-1", "member", id))
	})

	t.Run("workspace admin may delete", func(t *testing.T) {
		id := newSession(t)
		require.NoError(t, m.Delete(context.Background(), "ws-1", "admin", id))
	})

	t.Run("workspace owner may delete", func(t *testing.T) {
		id := newSession(t)
		require.NoError(t, m.Delete(context.Background(), "ws-1", "owner", id))
	})

	t.Run("other member may not delete", func(t *testing.T) {
		id := newSession(t)
		err := m.Delete(context.Background(), "ws-1", "other", id)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeAccessDenied, apperr.CodeOf(err))
	})

	t.Run("non-member may not delete", func(t *testing.T) {
		id := newSession(t)
		err := m.Delete(context.Background(), "ws-1", "stranger", id)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeAccessDenied, apperr.CodeOf(err))
	})
}
