// Package grok implements the decoder for the X.AI chat-completions
// compatible endpoint. The wire format matches chat-completions with one
// addition: frames may carry a separate reasoning_content delta alongside
// (or instead of) the main content delta. Events arrive as single-newline
// "data:" records rather than blank-line delimited blocks.
package grok

import (
	"encoding/json"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/sse"
)

// provider implements the Provider interface for the X.AI endpoint.
type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string {
	return "grok"
}

func (p *provider) Credential() string {
	return "xai"
}

func (p *provider) Path() string {
	return "/chat/completions"
}

func (p *provider) Framing() sse.Framing {
	return sse.FramingRecord
}

func (p *provider) Continuable() bool {
	return false
}

func (p *provider) BuildRequest(req *llm.ChatRequest) ([]byte, error) {
	messages := make([]chatMessage, 0, len(req.Messages)+1)

	if req.System != "" {
		messages = append(messages, chatMessage{Role: llm.RoleSystem, Content: req.System})
	}

	for _, msg := range req.Messages {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	return json.Marshal(chatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   true,
	})
}

func (p *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	var chunk streamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, err
	}

	if len(chunk.Choices) == 0 {
		return nil, nil
	}

	choice := chunk.Choices[0]
	result := &llm.StreamChunk{
		Content:   choice.Delta.Content,
		Reasoning: choice.Delta.ReasoningContent,
	}

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		result.Done = true
		result.StopReason = *choice.FinishReason
	}

	return result, nil
}
