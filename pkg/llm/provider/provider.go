// Package provider defines the stream decoder contract and its three
// endpoint-specific implementations. Each provider knows how to build its
// endpoint's request body and how to parse one framed stream event into the
// normalized internal representation. Frame splitting and buffering live in
// pkg/sse, shared by all providers; session state lives in the engine.
package provider

import (
	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/sse"
)

// Provider defines the decoder strategy for one upstream endpoint.
// Implementations are stateless: all per-turn state belongs to the caller's
// stream session.
type Provider interface {
	// Name returns the canonical provider name ("completions", "responses", "grok")
	Name() string

	// Credential returns the credential provider this endpoint authenticates
	// with (e.g. "openai", "xai").
	Credential() string

	// Path returns the endpoint path appended to the provider's base URL.
	Path() string

	// Framing returns how this endpoint's stream events are delimited.
	Framing() sse.Framing

	// Continuable reports whether this endpoint issues continuation tokens.
	Continuable() bool

	// BuildRequest serializes the normalized request into this endpoint's
	// wire format.
	BuildRequest(req *llm.ChatRequest) ([]byte, error)

	// ParseStreamChunk converts a single framed event payload into the
	// normalized chunk form.
	// Returns (nil, nil) if the frame should be skipped (e.g. keep-alive,
	// event types that carry nothing for the session).
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}
