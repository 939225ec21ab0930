// Package history defines the conversation persistence contract. Turns are
// appended as they complete and replayed in order to rebuild request context
// for later sends. Three drivers implement it: inmemory, sqlite, and postgres.
package history

import (
	"context"

	"github.com/skeinhq/skein/pkg/llm"
)

// Store defines the interface for persisting and retrieving conversation
// turns in a storage backend.
type Store interface {
	// Append stores one turn at the end of its conversation.
	Append(ctx context.Context, turn *llm.Turn) error

	// List returns all turns for a conversation in chronological order.
	List(ctx context.Context, conversationID string) ([]*llm.Turn, error)

	// RemoveLast removes the most recent turn of a conversation. Used to
	// discard a user message whose send produced nothing, so it can be
	// retried without duplicating history.
	RemoveLast(ctx context.Context, conversationID string) error

	// Close closes the store and releases any resources.
	Close() error
}

// NotFoundError is returned when a conversation has no stored turns to
// operate on.
type NotFoundError struct {
	ConversationID string
}

func (e NotFoundError) Error() string {
	if e.ConversationID == "" {
		return "conversation not found"
	}

	return "conversation not found: " + e.ConversationID
}
