package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Programmer-facing errors returned by SendTurn. Provider-side failures are
// never returned; they are reported through the Sink.
var (
	// ErrNoSink indicates the engine was constructed without a UI sink.
	ErrNoSink = errors.New("engine requires a sink")

	// ErrNoHistory indicates the engine was constructed without a history store.
	ErrNoHistory = errors.New("engine requires a history store")

	// ErrNoCredentials indicates the engine was constructed without a
	// credential source.
	ErrNoCredentials = errors.New("engine requires a credential source")
)

// statusMessage maps an upstream HTTP status to the user-facing category
// shown in the single per-session notification.
func statusMessage(status int, body string) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "authentication failed: check your API key with `skein auth --list`"
	case status == http.StatusTooManyRequests:
		return "rate limited by the provider: wait a moment and try again"
	case status == http.StatusRequestEntityTooLarge || lengthExceeded(status, body):
		return "request too long: start a new chat with /new or shorten your message"
	case status >= 500:
		return fmt.Sprintf("provider server error (HTTP %d): try again shortly", status)
	default:
		return fmt.Sprintf("provider rejected the request (HTTP %d)", status)
	}
}

// lengthExceeded sniffs a 400 body for the context-length error shape the
// completions endpoints return.
func lengthExceeded(status int, body string) bool {
	if status != http.StatusBadRequest {
		return false
	}

	lowered := strings.ToLower(body)
	return strings.Contains(lowered, "context_length") ||
		strings.Contains(lowered, "maximum context length") ||
		strings.Contains(lowered, "string too long")
}
