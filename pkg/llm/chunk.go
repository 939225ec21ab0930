package llm

// StreamChunk is the normalized form of one decoded stream frame. Decoders
// translate their wire events into this shape; the engine applies chunks to
// the active session in order.
//
// Delta fields are pointers so an absent delta is distinguishable from a
// legal empty-string delta: providers emit empty content deltas and those
// must still be absorbed.
type StreamChunk struct {
	// Accepted is set when the provider has acknowledged the request
	// (e.g. a response.created event). Clears the waiting indicator.
	Accepted bool

	// ItemStarted carries the id of a message item that just began within
	// a multi-item stream. Establishes the session's correlation id.
	ItemStarted string

	// ItemID identifies which item the deltas in this chunk belong to.
	// Empty for providers without item correlation.
	ItemID string

	// Content is the main-channel text delta. nil means no content field
	// was present in the frame.
	Content *string

	// Reasoning is the reasoning-channel text delta.
	Reasoning *string

	// StatusLabel relabels the waiting indicator (e.g. tool progress).
	StatusLabel string

	// SearchQuery is the query a tool-call lifecycle event reported.
	// Captured so the eventual SearchResults can carry it.
	SearchQuery string

	// SearchResults carries side-channel web search output embedded in
	// the stream.
	SearchResults *SearchResults

	// ContinuationToken is the provider-issued token captured from a
	// terminal event.
	ContinuationToken string

	// Done marks the chunk as terminal for this stream.
	Done bool

	// StopReason is the provider's stop reason, when reported.
	StopReason string

	// FailureReason is non-empty when the provider reported a failed or
	// incomplete terminal state. Partial content is still finalized.
	FailureReason string
}
