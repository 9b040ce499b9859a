// Package apperr defines the error taxonomy for the advisor service.
// Every fatal error carries a stable machine code plus a human-readable
// message; raw upstream error text is never surfaced to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error code.
type Code string

const (
	// CodeAccessDenied: the user is not a member of the workspace. Fatal, no retry.
	CodeAccessDenied Code = "ACCESS_DENIED"

	// CodeSessionNotFound: session absent or belongs to another workspace. Fatal.
	CodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// CodeAIUnavailable: an inference call failed or timed out. Fatal for the
	// turn, retryable by the caller.
	CodeAIUnavailable Code = "AI_UNAVAILABLE"

	// CodeRateLimited: the inference provider rejected the call for quota
	// reasons. Fatal, retryable later.
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeToolFailed: a single tool invocation failed. Recovered per-tool,
	// never fatal for the turn.
	CodeToolFailed Code = "TOOL_FAILED"

	// CodeMemoryError: turn-memory store read or write failed. Recovered
	// locally, conversational context degrades.
	CodeMemoryError Code = "MEMORY_ERROR"

	// CodeDecisionParse: the decision output could not be parsed as JSON.
	// Recovered via the plain-text fallback.
	CodeDecisionParse Code = "DECISION_PARSE"

	// CodePostProcessing: suggestion/action derivation failed. Recovered
	// with empty outputs.
	CodePostProcessing Code = "POST_PROCESSING"

	// CodeRetrievalUnavailable: embedding or vector index failure. Surfaced
	// as an explicit unavailable result, never a silent empty one.
	CodeRetrievalUnavailable Code = "RETRIEVAL_UNAVAILABLE"

	// CodeInternal: unexpected failure with no more specific classification.
	CodeInternal Code = "INTERNAL"
)

// Error is a coded error with a caller-safe message. The wrapped cause is
// available for logging via errors.Unwrap but is not part of Message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a caller-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error wrapping an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from an error chain, or CodeInternal if none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message from an error chain. Unknown
// errors map to a generic message so raw error text never leaks out.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An unexpected error occurred. Please try again."
}

// IsCode reports whether the error chain carries the given code.
func IsCode(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
