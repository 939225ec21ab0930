package llm

import "time"

// Turn is one persisted conversation entry: a user message, an assistant
// response (possibly with a reasoning channel and side-channel results), or
// a synthetic search-context entry injected by the side-channel renderer.
type Turn struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Role           string         `json:"role"`
	Content        string         `json:"content"`
	Reasoning      string         `json:"reasoning,omitempty"`
	Model          string         `json:"model,omitempty"`
	SearchContext  bool           `json:"search_context,omitempty"`
	SideChannel    *SearchResults `json:"side_channel,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// AsMessage converts the turn to the wire message form.
func (t *Turn) AsMessage() Message {
	return Message{Role: t.Role, Content: t.Content}
}
