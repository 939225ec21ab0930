package llm

// ChatRequest is the provider-agnostic request for one turn. The engine
// builds it once per send; decoders translate it into their endpoint's wire
// format. It is never mutated after construction.
type ChatRequest struct {
	// Model name (e.g. "gpt-4o-mini", "o1-mini", "grok-3")
	Model string `json:"model"`

	// Conversation messages in chronological order, ending with the
	// pending user message.
	Messages []Message `json:"messages"`

	// System prompt (persona), handled separately from messages because
	// providers disagree on where it goes.
	System string `json:"system,omitempty"`

	// WebSearch requests tool-enabled decoding on providers that support it.
	WebSearch bool `json:"web_search,omitempty"`

	// ContinuationToken references the previous provider response so
	// multi-turn context can be maintained without resending full history.
	// Only meaningful on providers that issue such tokens.
	ContinuationToken string `json:"continuation_token,omitempty"`
}

// LastUserContent returns the content of the trailing user message, or ""
// if the request does not end with one.
func (r *ChatRequest) LastUserContent() string {
	if len(r.Messages) == 0 {
		return ""
	}
	last := r.Messages[len(r.Messages)-1]
	if last.Role != RoleUser {
		return ""
	}
	return last.Content
}
