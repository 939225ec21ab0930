// Package sqlite provides a SQLite-backed history store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/skeinhq/skein/pkg/history"
	"github.com/skeinhq/skein/pkg/llm"
)

const schema = `
CREATE TABLE IF NOT EXISTS turns (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	role            TEXT NOT NULL,
	content         TEXT NOT NULL,
	reasoning       TEXT NOT NULL DEFAULT '',
	model           TEXT NOT NULL DEFAULT '',
	search_context  INTEGER NOT NULL DEFAULT 0,
	side_channel    TEXT,
	created_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns (conversation_id, seq);
`

// Store implements history.Store using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite-backed history store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	// Open the database using the github.com/mattn/go-sqlite3 driver (registered as "sqlite3")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite-specific pragmas
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append stores one turn at the end of its conversation.
func (s *Store) Append(ctx context.Context, turn *llm.Turn) error {
	var sideChannel sql.NullString
	if turn.SideChannel != nil {
		encoded, err := json.Marshal(turn.SideChannel)
		if err != nil {
			return fmt.Errorf("encoding side channel: %w", err)
		}
		sideChannel = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, conversation_id, role, content, reasoning, model, search_context, side_channel, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.ConversationID, turn.Role, turn.Content, turn.Reasoning,
		turn.Model, turn.SearchContext, sideChannel, turn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}

	return nil
}

// List returns all turns for a conversation in chronological order.
func (s *Store) List(ctx context.Context, conversationID string) ([]*llm.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, reasoning, model, search_context, side_channel, created_at
		 FROM turns WHERE conversation_id = ? ORDER BY seq`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []*llm.Turn
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}

	return turns, nil
}

// RemoveLast removes the most recent turn of a conversation.
func (s *Store) RemoveLast(ctx context.Context, conversationID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM turns WHERE seq = (
			SELECT seq FROM turns WHERE conversation_id = ? ORDER BY seq DESC LIMIT 1
		)`,
		conversationID,
	)
	if err != nil {
		return fmt.Errorf("deleting turn: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return history.NotFoundError{ConversationID: conversationID}
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanTurn(rows *sql.Rows) (*llm.Turn, error) {
	var (
		turn        llm.Turn
		sideChannel sql.NullString
	)

	err := rows.Scan(
		&turn.ID, &turn.ConversationID, &turn.Role, &turn.Content,
		&turn.Reasoning, &turn.Model, &turn.SearchContext, &sideChannel,
		&turn.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning turn: %w", err)
	}

	if sideChannel.Valid {
		var results llm.SearchResults
		if err := json.Unmarshal([]byte(sideChannel.String), &results); err != nil {
			return nil, fmt.Errorf("decoding side channel: %w", err)
		}
		turn.SideChannel = &results
	}

	return &turn, nil
}
