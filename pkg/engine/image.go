package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/utils"
)

// imageRequest is the wire body for the image-generation endpoint.
type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

// imageResponse is the non-streaming image-generation result.
type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// generateImage runs the image branch: one non-streaming call, the result
// written to a file in the working directory. It shares the
// message-container lifecycle and the persona side effects with text turns
// but not the decoder contract.
func (e *Engine) generateImage(ctx context.Context, userMessage string) error {
	key, err := e.creds.APIKey("openai")
	if err != nil || key == "" {
		e.sink.Notify("no API key for openai: run `skein auth openai`", SeverityError)
		return nil
	}

	e.sink.ShowWaiting("Generating image")
	defer e.sink.HideWaiting()

	// The persona system prompt and knowledge text ride ahead of the
	// user's prompt here too; the images endpoint has no separate system
	// field. Never silently dropped.
	prompt := userMessage
	if e.cfg.Persona.Knowledge != "" {
		prompt = "Reference material:\n" + e.cfg.Persona.Knowledge + "\n\n" + prompt
	}
	if e.cfg.Persona.SystemPrompt != "" {
		prompt = e.cfg.Persona.SystemPrompt + "\n\n" + prompt
	}

	body, err := json.Marshal(imageRequest{
		Model:          e.cfg.ImageModel,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return fmt.Errorf("encoding image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.OpenAIBase+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		e.logger.Warn("image request failed", zap.Error(err))
		e.sink.Notify("could not reach the provider: check your network and try again", SeverityError)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		e.logger.Warn("image request returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.Truncate(string(respBody), 512)),
		)
		e.sink.Notify(statusMessage(resp.StatusCode, string(respBody)), SeverityError)
		return nil
	}

	var result imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		e.logger.Warn("failed to decode image response", zap.Error(err))
		e.sink.Notify("the provider returned an unreadable image response", SeverityError)
		return nil
	}
	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		e.sink.Notify("the provider returned no image data", SeverityError)
		return nil
	}

	decoded, err := base64.StdEncoding.DecodeString(result.Data[0].B64JSON)
	if err != nil {
		e.logger.Warn("failed to decode image payload", zap.Error(err))
		e.sink.Notify("the provider returned an unreadable image payload", SeverityError)
		return nil
	}

	path := fmt.Sprintf("skein-image-%d.png", time.Now().Unix())
	if err := os.WriteFile(path, decoded, 0644); err != nil {
		return fmt.Errorf("writing image file: %w", err)
	}

	e.sink.CreateContainer()
	e.sink.ShowImage(path)

	now := time.Now().UTC()

	userTurn := &llm.Turn{
		ID:             uuid.NewString(),
		ConversationID: e.conversationID,
		Role:           llm.RoleUser,
		Content:        userMessage,
		CreatedAt:      now,
	}
	assistantTurn := &llm.Turn{
		ID:             uuid.NewString(),
		ConversationID: e.conversationID,
		Role:           llm.RoleAssistant,
		Content:        fmt.Sprintf("![generated image](%s)", path),
		Model:          e.cfg.ImageModel,
		CreatedAt:      now,
	}

	if err := e.store.Append(ctx, userTurn); err != nil {
		e.logger.Warn("failed to persist user turn", zap.Error(err))
	}
	if err := e.store.Append(ctx, assistantTurn); err != nil {
		e.logger.Warn("failed to persist assistant turn", zap.Error(err))
	}

	return nil
}
