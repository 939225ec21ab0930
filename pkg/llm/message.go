// Package llm holds the provider-agnostic conversation types shared by the
// stream decoders, the engine, and the history store.
package llm

// Message represents a single message in a conversation as sent upstream.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Roles used throughout skein.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
