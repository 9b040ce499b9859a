package memory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyward/advisor-go/internal/models"
)

func TestCreateTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/timelines", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"handle": "timeline-9f2"})
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	handle, err := store.CreateTimeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "timeline-9f2", handle)
}

func TestCreateTimelineRejectsEmptyHandle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	_, err := store.CreateTimeline(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty handle")
}

func TestReadPassesMostRecent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/timelines/timeline-1/entries", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("most_recent"))
		_ = json.NewEncoder(w).Encode(map[string]any{"entries": []models.MemoryEntry{
			{Content: "hello", Key: models.MemoryKeyUser, Timestamp: time.Now()},
			{Content: "hi there", Key: models.MemoryKeyAssistant, Timestamp: time.Now()},
		}})
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	entries, err := store.Read(context.Background(), "timeline-1", 30)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.MemoryKeyUser, entries[0].Key)
	assert.Equal(t, "hello", entries[0].Content)
}

func TestWriteSendsEntry(t *testing.T) {
	var got models.MemoryEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/timelines/timeline-1/entries", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	err := store.Write(context.Background(), "timeline-1", models.MemoryEntry{
		Content:   "remember this",
		Key:       models.MemoryKeyUser,
		Timestamp: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "remember this", got.Content)
	assert.Equal(t, models.MemoryKeyUser, got.Key)
}

func TestErrorStatusSurfacesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "timeline store on fire", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	_, err := store.Read(context.Background(), "timeline-1", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	assert.NotContains(t, err.Error(), "on fire")
}
