package engine

import (
	"strings"

	"github.com/skeinhq/skein/pkg/llm/provider"
	"github.com/skeinhq/skein/pkg/llm/provider/completions"
	"github.com/skeinhq/skein/pkg/llm/provider/grok"
	"github.com/skeinhq/skein/pkg/llm/provider/responses"
)

// route is the immutable routing decision for one turn: which decoder,
// which endpoint, which model, and whether web search tools are enabled.
type route struct {
	provider  provider.Provider
	baseURL   string
	model     string
	webSearch bool
}

// route picks the provider decoder for a turn. Decision order, first match
// wins:
//
//  1. web search forces the fixed search-capable model on the responses
//     decoder with tools enabled, regardless of the selected model
//  2. the configured reasoning model goes to the chat-completions decoder
//  3. "grok-" prefixed models go to the grok decoder
//  4. everything else defaults to the responses decoder
//
// (Image generation is decided before routing; it bypasses the stream
// decoders entirely.)
func (e *Engine) route(model string, search bool) route {
	if search {
		return route{
			provider:  responses.New(),
			baseURL:   e.cfg.OpenAIBase,
			model:     e.cfg.SearchModel,
			webSearch: true,
		}
	}

	if e.cfg.ReasoningModel != "" && model == e.cfg.ReasoningModel {
		return route{
			provider: completions.New(),
			baseURL:  e.cfg.OpenAIBase,
			model:    model,
		}
	}

	if strings.HasPrefix(model, "grok-") {
		return route{
			provider: grok.New(),
			baseURL:  e.cfg.XAIBase,
			model:    model,
		}
	}

	return route{
		provider: responses.New(),
		baseURL:  e.cfg.OpenAIBase,
		model:    model,
	}
}
