package llm

import (
	"html"
	"strings"
)

// renderCacheCapacity bounds the finalize memo. Oldest entries are evicted
// first once the cache is full.
const renderCacheCapacity = 50

// RenderFunc turns a complete raw message into its rich rendered form.
// Fragment-level rendering is never attempted: markdown constructs can span
// fragment boundaries, so only whole-message rendering is safe.
type RenderFunc func(raw string) (string, error)

// Accumulator holds the raw text produced so far for one turn. Fragments
// are absorbed append-only; per-fragment work is limited to safe escaping
// for the live view, and the full rendering happens once at finalize time.
//
// An Accumulator is owned by a single stream session and is not safe for
// concurrent use.
type Accumulator struct {
	render RenderFunc

	main      strings.Builder
	reasoning strings.Builder

	cache *renderCache
}

// NewAccumulator returns an Accumulator that renders finalized text through
// render. A nil render falls back to escaped plain text.
func NewAccumulator(render RenderFunc) *Accumulator {
	return &Accumulator{
		render: render,
		cache:  newRenderCache(renderCacheCapacity),
	}
}

// Reset clears both channels. Must be called once per new turn before any
// fragment is accepted. The render cache survives resets so identical
// messages across turns still hit the memo.
func (a *Accumulator) Reset() {
	a.main.Reset()
	a.reasoning.Reset()
}

// Absorb appends fragment to the running raw text and returns an HTML-safe
// encoding of only that fragment, suitable for immediate incremental
// display. Empty fragments are legal and yield an empty escaped result.
func (a *Accumulator) Absorb(fragment string) string {
	a.main.WriteString(fragment)
	if fragment == "" {
		return ""
	}
	return html.EscapeString(fragment)
}

// AbsorbReasoning is Absorb for the parallel reasoning channel.
func (a *Accumulator) AbsorbReasoning(fragment string) string {
	a.reasoning.WriteString(fragment)
	if fragment == "" {
		return ""
	}
	return html.EscapeString(fragment)
}

// RawText returns the full accumulated main-channel text, including
// mid-stream.
func (a *Accumulator) RawText() string {
	return a.main.String()
}

// RawReasoning returns the full accumulated reasoning-channel text.
func (a *Accumulator) RawReasoning() string {
	return a.reasoning.String()
}

// Finalize runs the complete main-channel text through the renderer.
// Identical raw text on repeated calls returns the memoized result rather
// than re-rendering. Renderer failures fall back to a safely-escaped plain
// rendering rather than raising.
func (a *Accumulator) Finalize() string {
	return a.finalize(a.main.String())
}

// FinalizeReasoning renders the entire reasoning channel once, replacing
// the escaped live view.
func (a *Accumulator) FinalizeReasoning() string {
	return a.finalize(a.reasoning.String())
}

// Render renders an arbitrary complete text through the same memoized
// cache as Finalize. Used when the final message body is composed from
// more than the accumulated channel, e.g. with a side-channel block
// prepended.
func (a *Accumulator) Render(raw string) string {
	return a.finalize(raw)
}

func (a *Accumulator) finalize(raw string) string {
	if rendered, ok := a.cache.get(raw); ok {
		return rendered
	}

	var rendered string
	if a.render == nil {
		rendered = html.EscapeString(raw)
	} else {
		out, err := a.render(raw)
		if err != nil {
			out = html.EscapeString(raw)
		}
		rendered = out
	}

	a.cache.put(raw, rendered)

	return rendered
}

// renderCache is a fixed-capacity memo with oldest-first eviction.
type renderCache struct {
	capacity int
	entries  map[string]string
	order    []string
}

func newRenderCache(capacity int) *renderCache {
	return &renderCache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
	}
}

func (c *renderCache) get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *renderCache) put(key, value string) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}
