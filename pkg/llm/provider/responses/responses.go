// Package responses implements the decoder for the OpenAI responses
// endpoint: typed SSE events with item correlation, web-search tool
// lifecycle events, citation annotations, and typed terminal events
// instead of the [DONE] sentinel.
package responses

import (
	"encoding/json"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/sse"
)

// Waiting-indicator labels for the web-search tool lifecycle.
const (
	labelSearching = "Searching the web"
	labelReading   = "Reading search results"
)

// provider implements the Provider interface for the responses endpoint.
type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string {
	return "responses"
}

func (p *provider) Credential() string {
	return "openai"
}

func (p *provider) Path() string {
	return "/responses"
}

func (p *provider) Framing() sse.Framing {
	return sse.FramingBlock
}

// Continuable is true: terminal events carry a response id usable as
// previous_response_id on the next turn.
func (p *provider) Continuable() bool {
	return true
}

func (p *provider) BuildRequest(req *llm.ChatRequest) ([]byte, error) {
	var input []inputItem

	if req.ContinuationToken != "" {
		// The server already holds the prior context; send only the
		// pending user message.
		input = []inputItem{{Role: llm.RoleUser, Content: req.LastUserContent()}}
	} else {
		input = make([]inputItem, 0, len(req.Messages))
		for _, msg := range req.Messages {
			input = append(input, inputItem{Role: msg.Role, Content: msg.Content})
		}
	}

	body := responseRequest{
		Model:              req.Model,
		Instructions:       req.System,
		Input:              input,
		Stream:             true,
		PreviousResponseID: req.ContinuationToken,
	}

	if req.WebSearch {
		body.Tools = []responseTool{{Type: "web_search"}}
	}

	return json.Marshal(body)
}

func (p *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	var event streamEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}

	switch event.Type {
	case "response.created":
		return &llm.StreamChunk{Accepted: true}, nil

	case "response.web_search_call.in_progress", "response.web_search_call.searching":
		return &llm.StreamChunk{StatusLabel: labelSearching}, nil

	case "response.web_search_call.completed":
		return &llm.StreamChunk{StatusLabel: labelReading}, nil

	case "response.output_item.added":
		if event.Item == nil {
			return nil, nil
		}
		switch event.Item.Type {
		case "message":
			return &llm.StreamChunk{ItemStarted: event.Item.ID}, nil
		case "web_search_call":
			return &llm.StreamChunk{StatusLabel: labelSearching}, nil
		}
		return nil, nil

	case "response.output_text.delta":
		// Empty deltas are valid and must be absorbed, so Content is set
		// even when Delta is "".
		delta := event.Delta
		return &llm.StreamChunk{ItemID: event.ItemID, Content: &delta}, nil

	case "response.output_item.done":
		if event.Item == nil {
			return nil, nil
		}
		switch event.Item.Type {
		case "message":
			if results := extractCitations(event.Item); results != nil {
				return &llm.StreamChunk{SearchResults: results}, nil
			}
		case "web_search_call":
			if event.Item.Action != nil && event.Item.Action.Query != "" {
				return &llm.StreamChunk{SearchQuery: event.Item.Action.Query}, nil
			}
		}
		return nil, nil

	case "response.completed":
		chunk := &llm.StreamChunk{Done: true, StopReason: "stop"}
		if event.Response != nil {
			chunk.ContinuationToken = event.Response.ID
		}
		return chunk, nil

	case "response.failed":
		chunk := &llm.StreamChunk{Done: true, FailureReason: "the provider reported a failure"}
		if event.Response != nil && event.Response.Error != nil && event.Response.Error.Message != "" {
			chunk.FailureReason = event.Response.Error.Message
		}
		return chunk, nil

	case "response.incomplete":
		chunk := &llm.StreamChunk{Done: true, FailureReason: "the response is incomplete"}
		if event.Response != nil && event.Response.IncompleteDetails != nil && event.Response.IncompleteDetails.Reason != "" {
			chunk.FailureReason = "the response is incomplete: " + event.Response.IncompleteDetails.Reason
		}
		return chunk, nil
	}

	// Unknown or irrelevant event types are skipped.
	return nil, nil
}

// extractCitations builds the side-channel result from a finished message
// item. Citation offsets index into the text of the content part they
// annotate; offsets are bounds-checked rather than trusted, and an
// out-of-range annotation still lists its title and URL with an empty
// excerpt.
func extractCitations(item *outputItem) *llm.SearchResults {
	var results []llm.SearchResult

	for _, part := range item.Content {
		if part.Type != "output_text" {
			continue
		}
		for _, ann := range part.Annotations {
			if ann.Type != "url_citation" {
				continue
			}
			results = append(results, llm.SearchResult{
				Title:   ann.Title,
				URL:     ann.URL,
				Excerpt: excerpt(part.Text, ann.StartIndex, ann.EndIndex),
			})
		}
	}

	if len(results) == 0 {
		return nil
	}

	return &llm.SearchResults{Results: results}
}

// excerpt slices text by the annotation's character range, clamping both
// ends to the text bounds.
func excerpt(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}
