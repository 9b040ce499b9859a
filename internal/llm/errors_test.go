package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		limited bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("connection reset"), false},
		{"timeout", errors.New("context deadline exceeded"), false},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"quota", errors.New("quota exceeded for model"), true},
		{"credit balance", errors.New("insufficient credit balance"), true},
		{"billing", errors.New("billing account inactive"), true},
		{"429 status", errors.New("HTTP 429: slow down"), true},
		{"too many requests", errors.New("Too Many Requests"), true},
		{"overloaded", errors.New("anthropic: overloaded_error"), true},
		{"wrapped", fmt.Errorf("decide: %w", errors.New("rate limit hit")), true},
		{"sentinel", fmt.Errorf("complete: %w", ErrRateLimited), true},
		{"404 not limited", errors.New("HTTP 404: not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.limited {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.limited)
			}
		})
	}
}
