package models

import "time"

// MemoryKey distinguishes who authored a turn-memory entry.
type MemoryKey string

const (
	MemoryKeyUser      MemoryKey = "user"
	MemoryKeyAssistant MemoryKey = "assistant"

	// MemoryKeySystem marks the synthetic digest produced by the compactor.
	// It is never written to the turn-memory store.
	MemoryKeySystem MemoryKey = "system"
)

// MemoryEntry is one entry in the external turn-memory store. Write-only
// from this core's perspective except for bounded most-recent reads.
type MemoryEntry struct {
	Content   string    `json:"content"`
	Key       MemoryKey `json:"key"`
	Timestamp time.Time `json:"timestamp"`
}
