package completions

// chatRequest represents the chat-completions request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatMessage represents a message in chat-completions format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamChunk represents a single streaming chunk from the endpoint.
type streamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"` // "chat.completion.chunk"
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
}

// streamChoice carries the incremental delta for one choice.
type streamChoice struct {
	Index int         `json:"index"`
	Delta streamDelta `json:"delta"`

	// Nullable; nil until the final chunk for this choice
	FinishReason *string `json:"finish_reason"`
}

// streamDelta carries the incremental content. All fields are optional —
// a chunk may carry only a role, only content, or nothing at all.
// Content is a pointer so an empty-string delta is distinguishable from an
// absent one.
type streamDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}
