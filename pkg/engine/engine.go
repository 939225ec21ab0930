// Package engine implements the streaming response normalization core: it
// routes a user turn to the right provider decoder, consumes that
// provider's event stream into a single coherent message (plus a parallel
// reasoning channel and side-channel search results), and guarantees a
// uniform, recoverable lifecycle around every turn regardless of how the
// stream ends.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skeinhq/skein/pkg/history"
	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/sse"
	"github.com/skeinhq/skein/pkg/utils"
)

// waitingLabel is the default waiting-indicator label shown while the
// provider has not yet produced visible content.
const waitingLabel = "Thinking"

// searchContextInstruction is appended to the system prompt when prior
// turns carry injected search-result context.
const searchContextInstruction = "Web search results included earlier in this conversation are authoritative; prefer them over your own recollection when they conflict."

// CredentialSource resolves the API key for a credential provider name
// (e.g. "openai", "xai").
type CredentialSource interface {
	APIKey(provider string) (string, error)
}

// Persona is the optional custom system prompt plus injected reference
// text applied to every outgoing turn.
type Persona struct {
	Name         string
	SystemPrompt string
	Knowledge    string
}

// Fingerprint identifies a persona configuration so continuation tokens
// minted under one persona are never replayed under another.
func (p Persona) Fingerprint() string {
	if p.Name == "" && p.SystemPrompt == "" && p.Knowledge == "" {
		return ""
	}

	return fmt.Sprintf("%s|%d|%d", p.Name, len(p.SystemPrompt), len(p.Knowledge))
}

// Config carries the engine's model and endpoint settings.
type Config struct {
	// OpenAIBase is the OpenAI-compatible API base URL.
	OpenAIBase string

	// XAIBase is the X.AI API base URL.
	XAIBase string

	// DefaultModel is used when the caller passes no model.
	DefaultModel string

	// ReasoningModel routes to the chat-completions decoder.
	ReasoningModel string

	// SearchModel is the fixed model forced for web-search turns.
	SearchModel string

	// ImageModel is the image-generation model.
	ImageModel string

	// Persona is the active persona configuration.
	Persona Persona
}

// Flags are per-turn mode toggles. WebSearch and Image are one-shot: the
// engine resets them after a single send, success or failure.
type Flags struct {
	WebSearch bool
	Image     bool
}

// Options configures a new Engine.
type Options struct {
	Config      Config
	Sink        Sink
	Credentials CredentialSource
	History     history.Store
	Continuity  ContinuityStore
	Logger      *zap.Logger
	HTTPClient  *http.Client
	Render      llm.RenderFunc
}

// Engine owns the per-turn stream lifecycle. One engine serves one
// conversation at a time; each SendTurn creates an independent
// StreamSession, so a second concurrent invocation cannot corrupt the
// first's state.
type Engine struct {
	cfg        Config
	sink       Sink
	creds      CredentialSource
	store      history.Store
	continuity ContinuityStore
	client     *http.Client
	logger     *zap.Logger

	// acc is reused across turns so the finalize render cache persists.
	acc *llm.Accumulator

	conversationID string
}

// New creates an Engine. Sink, Credentials, and History are required;
// everything else has a usable default.
func New(opts Options) (*Engine, error) {
	if opts.Sink == nil {
		return nil, ErrNoSink
	}
	if opts.History == nil {
		return nil, ErrNoHistory
	}
	if opts.Credentials == nil {
		return nil, ErrNoCredentials
	}

	continuity := opts.Continuity
	if continuity == nil {
		continuity = NewMemoryContinuity()
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			// LLM responses can be slow
			Timeout: 5 * time.Minute,
		}
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		cfg:            opts.Config,
		sink:           opts.Sink,
		creds:          opts.Credentials,
		store:          opts.History,
		continuity:     continuity,
		client:         client,
		logger:         log,
		acc:            llm.NewAccumulator(opts.Render),
		conversationID: uuid.NewString(),
	}, nil
}

// ConversationID returns the active conversation id.
func (e *Engine) ConversationID() string {
	return e.conversationID
}

// ResetConversation starts a fresh conversation: new id, continuity state
// cleared.
func (e *Engine) ResetConversation() error {
	e.conversationID = uuid.NewString()
	if err := e.continuity.Clear(); err != nil {
		return fmt.Errorf("clearing continuity state: %w", err)
	}

	return nil
}

// SendTurn sends one user turn and blocks until it has been fully
// finalized and persisted. Provider-side failures (transport errors,
// malformed frames, provider-reported failure states) are reported through
// the Sink and never returned; SendTurn only returns errors for missing
// collaborators or broken persistence.
func (e *Engine) SendTurn(ctx context.Context, model string, flags *Flags, userMessage string) error {
	if model == "" {
		model = e.cfg.DefaultModel
	}
	if flags == nil {
		flags = &Flags{}
	}

	if flags.Image {
		flags.Image = false
		return e.generateImage(ctx, userMessage)
	}

	// One-shot: the flag is spent by this turn no matter how it ends.
	search := flags.WebSearch
	flags.WebSearch = false

	userTurn := &llm.Turn{
		ID:             uuid.NewString(),
		ConversationID: e.conversationID,
		Role:           llm.RoleUser,
		Content:        userMessage,
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.store.Append(ctx, userTurn); err != nil {
		return fmt.Errorf("persisting user turn: %w", err)
	}

	rt := e.route(model, search)
	sess, streamed := e.attemptTurn(ctx, rt, search)

	// A search attempt that died before any stream started falls back to
	// the default path for the same turn.
	if search && !streamed {
		e.logger.Debug("web search attempt failed before streaming, falling back",
			zap.String("model", model),
		)
		rt = e.route(model, false)
		sess, _ = e.attemptTurn(ctx, rt, false)
	}

	if sess == nil || !sess.produced() {
		// Nothing came back at all. Drop the user turn so a retry does
		// not duplicate it in history.
		if err := e.store.RemoveLast(ctx, e.conversationID); err != nil {
			e.logger.Warn("failed to drop unanswered user turn", zap.Error(err))
		}
	}

	return nil
}

// attemptTurn runs one full request/stream/finalize cycle. It reports
// whether a stream was actually entered; quiet failures before that point
// (used by the search branch) skip user notification so the fallback
// attempt can still speak.
func (e *Engine) attemptTurn(ctx context.Context, rt route, quiet bool) (sess *StreamSession, streamed bool) {
	key, err := e.creds.APIKey(rt.provider.Credential())
	if err != nil || key == "" {
		if !quiet {
			e.sink.Notify(
				fmt.Sprintf("no API key for %s: run `skein auth %s`", rt.provider.Credential(), rt.provider.Credential()),
				SeverityError,
			)
		}
		return nil, false
	}

	req, err := e.buildRequest(ctx, rt)
	if err != nil {
		if !quiet {
			e.sink.Notify(fmt.Sprintf("building request: %v", err), SeverityError)
		}
		return nil, false
	}

	body, err := rt.provider.BuildRequest(req)
	if err != nil {
		if !quiet {
			e.sink.Notify(fmt.Sprintf("encoding request: %v", err), SeverityError)
		}
		return nil, false
	}

	sess = newSession(rt.provider, e.acc, e.sink, e.logger)
	sess.showWaiting(waitingLabel)

	// The single cleanup site: waiting indicator removal, finalize, and
	// persistence run on every exit path below, exactly once.
	defer e.finishSession(ctx, sess, rt)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, rt.baseURL+rt.provider.Path(), bytes.NewReader(body))
	if err != nil {
		sess.markTerminal()
		if !quiet {
			sess.notify(fmt.Sprintf("creating request: %v", err), SeverityError)
		}
		return sess, false
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		e.logger.Warn("stream request failed",
			zap.Error(err),
			zap.String("provider", rt.provider.Name()),
		)
		sess.markTerminal()
		if !quiet {
			sess.notify("could not reach the provider: check your network and try again", SeverityError)
		}
		return sess, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
		e.logger.Warn("provider returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("provider", rt.provider.Name()),
			zap.String("body", utils.Truncate(string(respBody), 512)),
		)
		sess.markTerminal()
		if !quiet {
			sess.notify(statusMessage(resp.StatusCode, string(respBody)), SeverityError)
		}
		return sess, false
	}

	e.consume(sess, resp.Body)
	return sess, true
}

// consume drives the decode loop: framed events off the body, through the
// provider's decoder, folded into the session. It returns when the session
// turns terminal or the stream ends, and never panics on malformed input.
func (e *Engine) consume(sess *StreamSession, body io.Reader) {
	reader := sse.NewReaderFraming(body, sess.provider.Framing())

	for !sess.terminal {
		event, err := reader.Next()
		if err != nil {
			// Abrupt closure: finalize whatever partial state exists.
			e.logger.Warn("stream read failed",
				zap.Error(err),
				zap.String("provider", sess.provider.Name()),
			)
			sess.markTerminal()
			return
		}
		if event == nil {
			// Clean EOF without a terminal event. Same policy: the user
			// sees the best-effort partial answer instead of nothing.
			sess.markTerminal()
			return
		}
		if event.Done() {
			sess.markTerminal()
			return
		}

		chunk, err := sess.provider.ParseStreamChunk([]byte(event.Data))
		if err != nil {
			sess.failDecode(err, event.Data)
			return
		}
		if chunk == nil {
			continue
		}

		sess.apply(chunk)
	}
}

// finishSession is the guaranteed finalize block for one session. It is
// idempotent: only the first call does anything.
func (e *Engine) finishSession(ctx context.Context, sess *StreamSession, rt route) {
	if sess.finished {
		return
	}
	sess.finished = true
	sess.markTerminal()

	sess.clearWaiting()

	if sess.failureReason != "" {
		sess.notify("the provider ended the response early: "+sess.failureReason, SeverityWarn)
	}

	e.saveContinuity(sess, rt)

	if !sess.produced() {
		return
	}

	rawBody, hasSideChannel := sess.finalBody()
	rendered := e.acc.Render(rawBody)

	var renderedReasoning string
	if e.acc.RawReasoning() != "" {
		renderedReasoning = e.acc.FinalizeReasoning()
	}

	sess.ensureContainer()
	sess.sink.FinalizeMessage(rendered, renderedReasoning, hasSideChannel)

	e.persistAssistantTurn(ctx, sess, rt)
}

// persistAssistantTurn records the side-channel context (as a synthetic
// turn later requests can see) and the assistant turn itself.
func (e *Engine) persistAssistantTurn(ctx context.Context, sess *StreamSession, rt route) {
	now := time.Now().UTC()
	side := sess.takeSideChannel()

	if side != nil {
		contextTurn := &llm.Turn{
			ID:             uuid.NewString(),
			ConversationID: e.conversationID,
			Role:           llm.RoleSystem,
			Content:        side.PlainText(),
			SearchContext:  true,
			CreatedAt:      now,
		}
		if err := e.store.Append(ctx, contextTurn); err != nil {
			e.logger.Warn("failed to persist search context turn", zap.Error(err))
		}
	}

	turn := &llm.Turn{
		ID:             uuid.NewString(),
		ConversationID: e.conversationID,
		Role:           llm.RoleAssistant,
		Content:        e.acc.RawText(),
		Reasoning:      e.acc.RawReasoning(),
		Model:          rt.model,
		SideChannel:    side,
		CreatedAt:      now,
	}
	if err := e.store.Append(ctx, turn); err != nil {
		e.logger.Warn("failed to persist assistant turn", zap.Error(err))
		sess.notify("the response could not be saved to history", SeverityWarn)
	}
}

// saveContinuity stores a freshly issued continuation token, or clears the
// state when the turn ran on a provider that cannot continue it.
func (e *Engine) saveContinuity(sess *StreamSession, rt route) {
	if sess.continuationToken != "" {
		state := &ContinuityState{
			ConversationID:     e.conversationID,
			ContinuationToken:  sess.continuationToken,
			PersonaFingerprint: e.cfg.Persona.Fingerprint(),
		}
		if err := e.continuity.Save(state); err != nil {
			e.logger.Warn("failed to save continuity state", zap.Error(err))
		}
		return
	}

	if !rt.provider.Continuable() {
		if err := e.continuity.Clear(); err != nil {
			e.logger.Warn("failed to clear continuity state", zap.Error(err))
		}
	}
}

// buildRequest assembles the provider-agnostic request for this turn:
// conversation history (which already ends with the pending user message),
// persona system prompt and knowledge injection, search-context standing
// instruction, and any live continuation token.
func (e *Engine) buildRequest(ctx context.Context, rt route) (*llm.ChatRequest, error) {
	turns, err := e.store.List(ctx, e.conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	var (
		messages      []llm.Message
		searchContext bool
	)
	for _, turn := range turns {
		if turn.SearchContext {
			searchContext = true
		}
		messages = append(messages, turn.AsMessage())
	}

	// Knowledge text rides ahead of the pending user content. Never
	// silently dropped.
	if e.cfg.Persona.Knowledge != "" && len(messages) > 0 {
		last := len(messages) - 1
		if messages[last].Role == llm.RoleUser {
			messages[last].Content = "Reference material:\n" + e.cfg.Persona.Knowledge + "\n\n" + messages[last].Content
		}
	}

	system := e.cfg.Persona.SystemPrompt
	if searchContext {
		if system != "" {
			system += "\n\n"
		}
		system += searchContextInstruction
	}

	return &llm.ChatRequest{
		Model:             rt.model,
		Messages:          messages,
		System:            system,
		WebSearch:         rt.webSearch,
		ContinuationToken: e.loadContinuationToken(rt),
	}, nil
}

// loadContinuationToken returns the live token for continuable providers,
// clearing stale state when the persona changed since the token was minted.
func (e *Engine) loadContinuationToken(rt route) string {
	state, err := e.continuity.Load()
	if err != nil {
		e.logger.Warn("failed to load continuity state", zap.Error(err))
		return ""
	}
	if state == nil {
		return ""
	}

	if state.PersonaFingerprint != e.cfg.Persona.Fingerprint() {
		if err := e.continuity.Clear(); err != nil {
			e.logger.Warn("failed to clear continuity state", zap.Error(err))
		}
		return ""
	}

	if !rt.provider.Continuable() {
		return ""
	}

	return state.ContinuationToken
}
