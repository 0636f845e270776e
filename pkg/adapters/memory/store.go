// Package memory provides an in-memory SessionStore, suitable for tests
// and single-process deployments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.SessionState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.SessionState),
	}
}

// clone deep-copies a state through JSON, matching what the durable
// adapters do, so callers can never mutate stored state by pointer.
func clone(state *domain.SessionState) (*domain.SessionState, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to copy session state: %w", err)
	}
	var cp domain.SessionState
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("failed to copy session state: %w", err)
	}
	return &cp, nil
}

// Save persists the state in memory.
func (s *Store) Save(ctx context.Context, conversationID string, state *domain.SessionState) error {
	cp, err := clone(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[conversationID] = cp
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, conversationID string) (*domain.SessionState, error) {
	s.mu.RLock()
	state, ok := s.data[conversationID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(state)
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationID)
	return nil
}

// List returns active conversations.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// EvictIdle removes sessions idle longer than maxAge.
func (s *Store) EvictIdle(ctx context.Context, maxAge time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	for id, state := range s.data {
		if state.LastActivity.Before(cutoff) {
			delete(s.data, id)
			evicted = append(evicted, id)
		}
	}
	return evicted, nil
}
