// Package inmemory provides a map-backed history store. It is the default
// for ephemeral chats and the store used in tests.
package inmemory

import (
	"context"
	"errors"
	"sync"

	"github.com/skeinhq/skein/pkg/history"
	"github.com/skeinhq/skein/pkg/llm"
)

// Store implements history.Store using in-memory slices keyed by
// conversation id.
type Store struct {
	// mu guards turns across concurrent appends and reads
	mu sync.RWMutex

	// turns maps conversation id to its turns in append order
	turns map[string][]*llm.Turn
}

// NewStore creates a new in-memory history store.
func NewStore() *Store {
	return &Store{
		turns: make(map[string][]*llm.Turn),
	}
}

// Append stores one turn at the end of its conversation.
func (s *Store) Append(_ context.Context, turn *llm.Turn) error {
	if turn == nil {
		return errors.New("cannot store nil turn")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[turn.ConversationID] = append(s.turns[turn.ConversationID], turn)
	return nil
}

// List returns all turns for a conversation in chronological order.
func (s *Store) List(_ context.Context, conversationID string) ([]*llm.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[conversationID]
	result := make([]*llm.Turn, len(stored))
	copy(result, stored)

	return result, nil
}

// RemoveLast removes the most recent turn of a conversation.
func (s *Store) RemoveLast(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.turns[conversationID]
	if len(stored) == 0 {
		return history.NotFoundError{ConversationID: conversationID}
	}

	s.turns[conversationID] = stored[:len(stored)-1]
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
