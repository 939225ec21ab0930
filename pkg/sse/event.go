// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// reader used by the skein stream decoders. It splits an upstream LLM
// provider byte stream into discrete events, tolerating arbitrary chunking
// of the underlying reads: a frame split across two network deliveries is
// reassembled before it is surfaced.
//
// Two framings are supported, because the upstream providers disagree:
// blank-line delimited SSE blocks (the spec-compliant form) and bare
// newline-delimited "data: <payload>" records.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// DoneSentinel is the literal payload OpenAI-compatible APIs emit as the
// final data record of a stream.
const DoneSentinel = "[DONE]"

// Framing selects how events are delimited in the upstream byte stream.
type Framing int

const (
	// FramingBlock treats a blank line as the end of an event and joins
	// multiple "data:" lines with "\n", per the SSE spec.
	FramingBlock Framing = iota

	// FramingRecord treats every "data:" line as a complete event on its
	// own. Used for providers that emit one JSON record per line without
	// blank-line separators.
	FramingRecord
)

// Event represents a single parsed SSE event.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Type string

	// Data is the concatenated contents of all "data:" lines for this event,
	// joined with "\n" (per the SSE spec, multiple data fields are joined
	// with a single newline).
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string
}

// Done reports whether this event carries the [DONE] stream terminator.
func (e *Event) Done() bool {
	return e.Data == DoneSentinel
}
