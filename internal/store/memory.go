// internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Sessions are keyed by ID in a map guarded by an RWMutex.
//   - Every Get refreshes the session's last-used time; Evict closes and removes
//     sessions idle since a cutoff so their pending timers are torn down.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned by Get for an unknown or evicted ID.
var ErrNotFound = errors.New("session not found")

// Session is a live game owned by one player.
type Session interface {
	ID() string
	Owner() string
	// Close stops any pending timers. It must be safe to call more than once.
	Close()
}

// Store defines the registry interface for game sessions.
type Store interface {
	// Save adds or replaces s.
	Save(ctx context.Context, s Session) error

	// Get retrieves a session by ID and marks it as used.
	Get(ctx context.Context, id string) (Session, error)

	// Touch marks a session as used without returning it. Callers that keep a
	// session pointer (a WebSocket) touch it on every message.
	Touch(ctx context.Context, id string) error

	// Delete closes and removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Evict closes and removes every session last used before idleSince.
	// It returns the number of sessions removed.
	Evict(ctx context.Context, idleSince time.Time) int
}

type entry struct {
	s        Session
	lastUsed time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	old := m.sessions[s.ID()]
	m.sessions[s.ID()] = &entry{s: s, lastUsed: m.now()}
	m.mu.Unlock()
	if old != nil && old.s != s {
		old.s.Close()
	}
	return nil
}

func (m *memory) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastUsed = m.now()
	return e.s, nil
}

func (m *memory) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.lastUsed = m.now()
	return nil
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.s.Close()
	}
	return nil
}

func (m *memory) Evict(_ context.Context, idleSince time.Time) int {
	var stale []Session
	m.mu.Lock()
	for id, e := range m.sessions {
		if e.lastUsed.Before(idleSince) {
			stale = append(stale, e.s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// Len reports how many sessions s holds. It is meant for diagnostics.
func Len(s Store) int {
	m, ok := s.(*memory)
	if !ok {
		return -1
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
