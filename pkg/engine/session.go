package engine

import (
	"go.uber.org/zap"

	"github.com/skeinhq/skein/pkg/llm"
	"github.com/skeinhq/skein/pkg/llm/provider"
	"github.com/skeinhq/skein/pkg/utils"
)

// decodeErrorMarker is appended to the visible message when a frame fails
// to decode mid-stream. The partial content before it is still finalized.
const decodeErrorMarker = "\n\n[response interrupted: stream decode error]"

// StreamSession holds all per-turn decode state. One session is created per
// outgoing user turn, owned by the SendTurn invocation that created it, and
// destroyed when the turn finalizes. Nothing in it is shared across turns
// except the accumulator's render cache.
type StreamSession struct {
	provider provider.Provider
	acc      *llm.Accumulator
	sink     Sink
	logger   *zap.Logger

	// correlationID identifies which item's deltas belong to this session
	// on multi-item streams. Deltas for other item ids are ignored.
	correlationID string

	// started flips true at most once, on first visible content.
	started bool

	// containerCreated guards the one-container-per-session invariant.
	containerCreated bool

	// waitingVisible tracks the waiting indicator so it is hidden exactly
	// once per showing, on every exit path.
	waitingVisible bool

	// terminal transitions false to true exactly once, on the first
	// terminal event, decode error, or stream closure.
	terminal bool

	// finished guards the finalize block itself.
	finished bool

	// notified guards the one-notification-per-session rule.
	notified bool

	// sideMerged guards the side-channel merge against finalize re-entry.
	sideMerged bool

	sideChannel       *llm.SearchResults
	searchQuery       string
	continuationToken string
	stopReason        string
	failureReason     string
}

func newSession(p provider.Provider, acc *llm.Accumulator, sink Sink, logger *zap.Logger) *StreamSession {
	acc.Reset()

	return &StreamSession{
		provider: p,
		acc:      acc,
		sink:     sink,
		logger:   logger,
	}
}

// apply folds one normalized chunk into the session. Chunks arrive strictly
// in byte-read order; apply is never called after the session is terminal.
func (s *StreamSession) apply(chunk *llm.StreamChunk) {
	if chunk.Accepted {
		s.clearWaiting()
	}

	// Tool lifecycle events arrive after response.created has hidden the
	// indicator; relabeling re-shows it until visible content begins.
	if chunk.StatusLabel != "" && !s.started {
		s.waitingVisible = true
		s.sink.SetWaitingLabel(chunk.StatusLabel)
	}

	if chunk.SearchQuery != "" {
		s.searchQuery = chunk.SearchQuery
	}

	if chunk.ItemStarted != "" && s.correlationID == "" {
		s.correlationID = chunk.ItemStarted
		s.ensureContainer()
	}

	if chunk.Content != nil && s.itemMatches(chunk.ItemID) {
		s.appendContent(*chunk.Content)
	}

	if chunk.Reasoning != nil {
		s.appendReasoning(*chunk.Reasoning)
	}

	if chunk.SearchResults != nil {
		s.setSideChannel(chunk.SearchResults)
	}

	if chunk.ContinuationToken != "" {
		s.continuationToken = chunk.ContinuationToken
	}

	if chunk.Done {
		s.stopReason = chunk.StopReason
		s.failureReason = chunk.FailureReason
		s.markTerminal()
	}
}

// itemMatches reports whether a delta's item id belongs to this session.
// Providers without item correlation send empty ids, which always match.
func (s *StreamSession) itemMatches(itemID string) bool {
	if itemID == "" || s.correlationID == "" {
		return true
	}

	return itemID == s.correlationID
}

// appendContent absorbs a main-channel delta and streams its escaped form
// to the sink. Empty deltas are absorbed without opening the container.
func (s *StreamSession) appendContent(delta string) {
	if delta != "" {
		s.begin()
	}

	escaped := s.acc.Absorb(delta)
	if escaped != "" {
		s.sink.AppendFragment(escaped)
	}
}

// appendReasoning is appendContent for the reasoning channel. Reasoning
// alone does not open the message container; a reasoning-only stream is
// still finalized as an assistant turn at cleanup.
func (s *StreamSession) appendReasoning(delta string) {
	if delta == "" {
		return
	}

	s.clearWaiting()
	escaped := s.acc.AbsorbReasoning(delta)
	s.sink.AppendReasoning(escaped)
}

// setSideChannel records pending tool output. A side-channel result with no
// text yet still opens the container so the rendered block has a home.
func (s *StreamSession) setSideChannel(results *llm.SearchResults) {
	if results.Query == "" {
		results.Query = s.searchQuery
	}

	s.sideChannel = results
	s.ensureContainer()
}

// begin marks first visible content: waiting indicator down, container up.
func (s *StreamSession) begin() {
	if s.started {
		return
	}

	s.started = true
	s.clearWaiting()
	s.ensureContainer()
}

func (s *StreamSession) ensureContainer() {
	if s.containerCreated {
		return
	}

	s.containerCreated = true
	s.clearWaiting()
	s.sink.CreateContainer()
}

// showWaiting displays the waiting indicator. Called once by the engine
// before the request goes out.
func (s *StreamSession) showWaiting(label string) {
	s.waitingVisible = true
	s.sink.ShowWaiting(label)
}

func (s *StreamSession) clearWaiting() {
	if !s.waitingVisible {
		return
	}

	s.waitingVisible = false
	s.sink.HideWaiting()
}

// markTerminal transitions the session to terminal. Idempotent; the first
// caller wins.
func (s *StreamSession) markTerminal() {
	s.terminal = true
}

// notify surfaces one user-facing message for the session. Later calls for
// the same session are dropped.
func (s *StreamSession) notify(message string, severity Severity) {
	if s.notified {
		return
	}

	s.notified = true
	s.sink.Notify(message, severity)
}

// failDecode handles a malformed frame: log it, append a visible inline
// error marker to whatever content exists, and mark the session terminal.
// The consuming loop never observes the parse error as a panic or return.
func (s *StreamSession) failDecode(err error, payload string) {
	s.logger.Warn("failed to decode stream frame",
		zap.Error(err),
		zap.String("provider", s.provider.Name()),
		zap.String("payload", utils.Truncate(payload, 512)),
	)

	s.ensureContainer()
	s.sink.AppendFragment(s.acc.Absorb(decodeErrorMarker))
	s.markTerminal()
}

// finalBody composes the raw message body for rendering, with the
// side-channel block prepended ahead of the main text. Rendering is pure;
// the once-only guard for recording the side channel as context lives in
// takeSideChannel.
func (s *StreamSession) finalBody() (raw string, hasSideChannel bool) {
	raw = s.acc.RawText()

	if s.sideChannel == nil || len(s.sideChannel.Results) == 0 {
		return raw, false
	}

	if raw == "" {
		return s.sideChannel.Markdown(), true
	}

	return s.sideChannel.Markdown() + "\n\n" + raw, true
}

// produced reports whether the session yielded anything worth finalizing:
// visible content, reasoning, or a side-channel result.
func (s *StreamSession) produced() bool {
	return s.containerCreated || s.acc.RawText() != "" || s.acc.RawReasoning() != ""
}

// takeSideChannel returns the pending side-channel result exactly once per
// session, so a finalize re-entered from an error path never records the
// same result twice.
func (s *StreamSession) takeSideChannel() *llm.SearchResults {
	if s.sideChannel == nil || len(s.sideChannel.Results) == 0 || s.sideMerged {
		return nil
	}

	s.sideMerged = true
	return s.sideChannel
}
