package engine

// ContinuityState is the provider-continuation bookkeeping carried between
// turns: which conversation is active, the last continuation token the
// provider issued, and a fingerprint of the persona the token was minted
// under. A token minted under one persona is never replayed under another.
type ContinuityState struct {
	ConversationID     string `json:"conversation_id"`
	ContinuationToken  string `json:"continuation_token,omitempty"`
	PersonaFingerprint string `json:"persona_fingerprint,omitempty"`
}

// ContinuityStore persists ContinuityState across turns (and, for
// file-backed implementations, across process restarts). Exactly one state
// is live at a time; Save is last-writer-wins.
type ContinuityStore interface {
	// Load returns the current state, or nil if none is stored.
	Load() (*ContinuityState, error)

	// Save replaces the stored state.
	Save(state *ContinuityState) error

	// Clear removes the stored state.
	Clear() error
}

// MemoryContinuity is a process-local ContinuityStore. Used for ephemeral
// chats and in tests.
type MemoryContinuity struct {
	state *ContinuityState
}

// NewMemoryContinuity returns an empty in-memory continuity store.
func NewMemoryContinuity() *MemoryContinuity {
	return &MemoryContinuity{}
}

// Load returns the current state, or nil if none is stored.
func (m *MemoryContinuity) Load() (*ContinuityState, error) {
	if m.state == nil {
		return nil, nil
	}

	copied := *m.state
	return &copied, nil
}

// Save replaces the stored state.
func (m *MemoryContinuity) Save(state *ContinuityState) error {
	if state == nil {
		m.state = nil
		return nil
	}

	copied := *state
	m.state = &copied
	return nil
}

// Clear removes the stored state.
func (m *MemoryContinuity) Clear() error {
	m.state = nil
	return nil
}
