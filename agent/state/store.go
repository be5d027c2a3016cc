package state

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	ErrStateNotFound   = errors.New("session state not found")
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

// Store is the keyed session persistence contract (session-id -> state).
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionState, error)
	Save(ctx context.Context, st *SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps live sessions in process memory. Load and Save exchange
// copies, so a turn aborted mid-flight leaves the stored state untouched;
// nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionState),
	}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return cloneState(st), nil
}

func (m *MemoryStore) Save(ctx context.Context, st *SessionState) error {
	if st == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[st.SessionID] = cloneState(st)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

func cloneState(st *SessionState) *SessionState {
	clone := *st
	clone.Window = Window{Entries: make([]Entry, len(st.Window.Entries))}
	for i, e := range st.Window.Entries {
		clone.Window.Entries[i] = e
		if e.ToolCall != nil {
			call := *e.ToolCall
			clone.Window.Entries[i].ToolCall = &call
		}
	}
	return &clone
}
