// Package compact reduces long conversation histories into a bounded window
// plus one synthetic fact digest. The reduction is rule-based and
// deterministic on purpose: downstream inference cost stays bounded
// independent of conversation length, the few facts users expect to be
// remembered survive, and no second model call is spent on summarization.
package compact

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/complyward/advisor-go/internal/models"
)

const (
	// MaxEntries is the most history the compactor ever considers.
	MaxEntries = 100

	// Threshold is the entry count above which compaction kicks in.
	Threshold = 20

	// KeepVerbatim is the number of most recent entries kept untouched.
	KeepVerbatim = 12
)

// namePatterns extract the user's name from user messages. Checked in this
// order, first match wins, scanned oldest entry first.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Mm]y name is ([A-Z][a-zA-Z'-]*)`),
	regexp.MustCompile(`I'm ([A-Z][a-zA-Z'-]*)`),
	regexp.MustCompile(`I am ([A-Z][a-zA-Z'-]*)`),
	regexp.MustCompile(`[Cc]all me ([A-Z][a-zA-Z'-]*)`),
}

// Figures reported by the assistant that users expect to be remembered.
var (
	scorePattern    = regexp.MustCompile(`(?i)compliance score (?:is |of |was |: ?)?(\d{1,3})\s?%?`)
	documentPattern = regexp.MustCompile(`(?i)\b(\d+)\s+documents?\b`)
)

// Compact applies the reduction policy to a history of memory entries,
// ordered oldest first. At or below Threshold entries the input is returned
// unchanged. Above it, the last KeepVerbatim entries survive verbatim and
// everything older collapses into exactly one system-role digest.
func Compact(entries []models.MemoryEntry) []models.MemoryEntry {
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}
	if len(entries) <= Threshold {
		return entries
	}

	split := len(entries) - KeepVerbatim
	older := entries[:split]
	recent := entries[split:]

	digest := buildDigest(older)

	out := make([]models.MemoryEntry, 0, len(recent)+1)
	out = append(out, models.MemoryEntry{
		Key:     models.MemoryKeySystem,
		Content: digest,
	})
	out = append(out, recent...)
	return out
}

// buildDigest renders the fact digest for the older segment in fixed order:
// first user message, user name, then assistant-reported figures. Absent
// facts are omitted, never placeholder-filled.
func buildDigest(older []models.MemoryEntry) string {
	var sb strings.Builder
	sb.WriteString("Earlier conversation summary:")

	if first := firstUserMessage(older); first != "" {
		sb.WriteString(fmt.Sprintf("\n- Conversation started with: %q", first))
	}
	if name := extractName(older); name != "" {
		sb.WriteString("\n- User's name: " + name)
	}
	if score, ok := extractScore(older); ok {
		sb.WriteString("\n- Compliance score mentioned: " + score + "%")
	}
	if count, ok := extractDocumentCount(older); ok {
		sb.WriteString("\n- Documents mentioned: " + count)
	}

	return sb.String()
}

func firstUserMessage(entries []models.MemoryEntry) string {
	for _, e := range entries {
		if e.Key == models.MemoryKeyUser {
			return e.Content
		}
	}
	return ""
}

func extractName(entries []models.MemoryEntry) string {
	for _, e := range entries {
		if e.Key != models.MemoryKeyUser {
			continue
		}
		for _, pattern := range namePatterns {
			if m := pattern.FindStringSubmatch(e.Content); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

func extractScore(entries []models.MemoryEntry) (string, bool) {
	for _, e := range entries {
		if e.Key != models.MemoryKeyAssistant {
			continue
		}
		if m := scorePattern.FindStringSubmatch(e.Content); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func extractDocumentCount(entries []models.MemoryEntry) (string, bool) {
	for _, e := range entries {
		if e.Key != models.MemoryKeyAssistant {
			continue
		}
		if m := documentPattern.FindStringSubmatch(e.Content); m != nil {
			return m[1], true
		}
	}
	return "", false
}
