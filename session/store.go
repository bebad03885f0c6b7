package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates no state exists for a session ID.
var ErrSessionNotFound = errors.New("session not found")

// Store persists conversation state between turns.
// Implementations must be thread-safe.
type Store interface {
	// Get retrieves the state for a session.
	// Returns ErrSessionNotFound when the session doesn't exist.
	Get(ctx context.Context, id string) (*State, error)

	// Put stores the state for a session, replacing any previous value.
	Put(ctx context.Context, state *State) error

	// Delete removes a session's state. Deleting a missing session is not
	// an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the store.
	Close() error
}

// NewSessionID generates a new unique session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*State),
	}
}

// Get retrieves the state for a session.
func (m *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state.clone(), nil
}

// Put stores the state for a session.
func (m *MemoryStore) Put(ctx context.Context, state *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[state.ID] = state.clone()
	return nil
}

// Delete removes a session's state.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
