package engine

// Severity classifies user notifications emitted by the engine.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Sink is the UI contract the engine drives while a stream is consumed.
// The engine guarantees per session: the waiting indicator is hidden on
// every exit path, at most one message container is created, fragments are
// appended in the order bytes were read, and FinalizeMessage is called at
// most once.
//
// Implementations are not required to be safe for concurrent use; the
// engine calls them from a single goroutine.
type Sink interface {
	// ShowWaiting displays the waiting ("thinking") indicator with a label.
	ShowWaiting(label string)

	// SetWaitingLabel relabels the waiting indicator while a tool call
	// progresses, re-showing it if it was already hidden.
	SetWaitingLabel(label string)

	// HideWaiting removes the waiting indicator. Must tolerate being
	// called when no indicator is shown.
	HideWaiting()

	// CreateContainer opens the message container for the assistant turn.
	// Called lazily on first visible content, at most once per session.
	CreateContainer()

	// AppendFragment appends an escaped main-channel fragment to the open
	// container for live display.
	AppendFragment(escaped string)

	// AppendReasoning appends an escaped reasoning-channel fragment to the
	// togglable reasoning region.
	AppendReasoning(escaped string)

	// FinalizeMessage replaces the live view with the fully rendered
	// message body (and rendered reasoning, when present).
	FinalizeMessage(rendered string, reasoning string, hasSideChannel bool)

	// ShowImage displays a generated image written to path. Shares the
	// container lifecycle with text turns.
	ShowImage(path string)

	// Notify surfaces a user-facing message outside the conversation body.
	Notify(message string, severity Severity)
}
