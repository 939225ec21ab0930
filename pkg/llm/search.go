package llm

import (
	"fmt"
	"strings"
)

// SearchResults is the structured side-channel output extracted from a
// stream: web search citations tied to the message they annotate.
type SearchResults struct {
	Query   string         `json:"query,omitempty"`
	Results []SearchResult `json:"results"`
}

// SearchResult is one citation: the page title, its URL, and the excerpt of
// the message text the citation's character range covers.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt,omitempty"`
}

// PlainText renders the results as a plain-text block suitable for
// injection into later request history as a synthetic prior turn.
func (s *SearchResults) PlainText() string {
	var b strings.Builder
	if s.Query != "" {
		fmt.Fprintf(&b, "Web search results for %q:\n", s.Query)
	} else {
		b.WriteString("Web search results:\n")
	}
	for i, r := range s.Results {
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, r.Title, r.URL)
		if r.Excerpt != "" {
			fmt.Fprintf(&b, " — %s", r.Excerpt)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Markdown renders the results as a markdown block for prepending to the
// finalized message body.
func (s *SearchResults) Markdown() string {
	var b strings.Builder
	b.WriteString("**Sources**")
	if s.Query != "" {
		fmt.Fprintf(&b, " _(query: %s)_", s.Query)
	}
	b.WriteString("\n\n")
	for _, r := range s.Results {
		fmt.Fprintf(&b, "- [%s](%s)", r.Title, r.URL)
		if r.Excerpt != "" {
			fmt.Fprintf(&b, ": %s", r.Excerpt)
		}
		b.WriteString("\n")
	}
	return b.String()
}
