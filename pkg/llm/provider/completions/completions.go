// Package completions implements the decoder for OpenAI-style
// chat-completions streaming: "data:" framed JSON chunks carrying content
// deltas, terminated by a finish_reason and the [DONE] sentinel.
package completions

import (
	"encoding/json"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/sse"
)

// provider implements the Provider interface for the chat-completions endpoint.
type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string {
	return "completions"
}

func (p *provider) Credential() string {
	return "openai"
}

func (p *provider) Path() string {
	return "/chat/completions"
}

func (p *provider) Framing() sse.Framing {
	return sse.FramingBlock
}

// Continuable is false: the chat-completions endpoint issues no token, the
// client must resend history each turn.
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
		// Usage-only or keep-alive chunk
		return nil, nil
	}

	choice := chunk.Choices[0]
	result := &llm.StreamChunk{
		Content: choice.Delta.Content,
	}

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		result.Done = true
		result.StopReason = *choice.FinishReason
	}

	return result, nil
}
