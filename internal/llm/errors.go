package llm

import (
	"errors"
	"strings"
)

// ErrRateLimited marks provider errors caused by quota or billing limits.
// These are fatal for the turn but retryable later.
var ErrRateLimited = errors.New("rate limited by provider")

// rateLimitPatterns are substrings of provider error messages that indicate
// quota exhaustion rather than a transient failure.
var rateLimitPatterns = []string{
	"rate limit",
	"quota exceeded",
	"credit balance",
	"billing",
	"429",
	"too many requests",
	"overloaded",
}

// IsRateLimited reports whether the error looks like a provider quota
// rejection.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range rateLimitPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
