package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skeinhq/skein/pkg/engine"
)

const (
	sessionFile = "session.json"
)

// SessionStore persists engine continuity state in the resolved .skein/
// directory, so conversation continuity survives process restarts. It
// implements engine.ContinuityStore.
type SessionStore struct {
	manager     *Manager
	overrideDir string
}

// NewSessionStore creates a session store rooted at the resolved .skein/
// directory. If overrideDir is non-empty, it is used instead of the usual
// resolution order.
func NewSessionStore(overrideDir string) *SessionStore {
	return &SessionStore{
		manager:     NewManager(),
		overrideDir: overrideDir,
	}
}

// Load reads the session state from .skein/session.json.
// Returns nil, nil if no session state exists (fresh conversation).
func (s *SessionStore) Load() (*engine.ContinuityState, error) {
	dir, err := s.manager.Target(s.overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, sessionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	state := &engine.ContinuityState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}

	return state, nil
}

// Save persists the session state to .skein/session.json.
func (s *SessionStore) Save(state *engine.ContinuityState) error {
	if state == nil {
		return errors.New("cannot save nil session state")
	}

	dir, err := s.manager.Target(s.overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	return nil
}

// Clear removes the session state file, so the next chat starts a fresh
// conversation. Returns nil if the file doesn't exist (already cleared).
func (s *SessionStore) Clear() error {
	dir, err := s.manager.Target(s.overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session state: %w", err)
	}

	return nil
}
