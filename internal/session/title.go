package session

import (
	"strings"
	"unicode"
)

const (
	defaultTitle  = "New Conversation"
	titleMaxLen   = 50
	titleCutAfter = 30
	titleEllipsis = "..."
)

// greetingPrefixes are stripped repeatedly from the front of the first user
// message, longest match first. Matching is case-insensitive and requires a
// word boundary.
var greetingPrefixes = []string{
	"good morning",
	"good afternoon",
	"good evening",
	"hey there",
	"hi there",
	"could you please",
	"can you please",
	"would you please",
	"could you",
	"can you",
	"would you",
	"will you",
	"thank you",
	"greetings",
	"thanks",
	"please",
	"hello",
	"howdy",
	"hey",
	"hi",
}

// questionWords stop prefix stripping so "What is..." and "How do..."
// survive as titles.
var questionWords = []string{
	"what", "how", "why", "when", "where", "who", "which", "do", "does", "is", "are",
}

// DeriveTitle turns the first user message of a session into its title:
// greeting prefixes are stripped (leading question words preserved), the
// first letter capitalized, trailing punctuation removed, and anything over
// 50 characters cut at the last word boundary past position 30 with an
// ellipsis. An empty result falls back to "New Conversation".
func DeriveTitle(message string) string {
	t := strings.TrimSpace(message)

	for {
		next := stripGreeting(t)
		if next == t {
			break
		}
		t = next
	}

	t = strings.TrimRight(strings.TrimSpace(t), ".,!?;: ")
	if t == "" {
		return defaultTitle
	}

	runes := []rune(t)
	runes[0] = unicode.ToUpper(runes[0])
	t = string(runes)

	if len(runes) > titleMaxLen {
		cut := string(runes[:titleMaxLen])
		if idx := strings.LastIndex(cut, " "); idx > titleCutAfter {
			cut = cut[:idx]
		}
		t = strings.TrimRight(cut, ".,!?;: ") + titleEllipsis
	}

	return t
}

// stripGreeting removes one leading greeting prefix plus any separator
// punctuation, or returns the input unchanged.
func stripGreeting(t string) string {
	lower := strings.ToLower(t)

	first := lower
	if idx := strings.IndexFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}); idx >= 0 {
		first = lower[:idx]
	}
	for _, q := range questionWords {
		if first == q {
			return t
		}
	}

	for _, prefix := range greetingPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := t[len(prefix):]
		if rest != "" {
			r := []rune(rest)[0]
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		return strings.TrimLeft(rest, " ,.!-:;")
	}
	return t
}
