package scores

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// memory is a map-backed Store. State is lost when the process restarts.
type memory struct {
	mu   sync.RWMutex
	best map[string]map[Key]decimal.Decimal
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{best: make(map[string]map[Key]decimal.Decimal)}
}

func (m *memory) Best(_ context.Context, owner string, key Key) (decimal.Decimal, bool, error) {
	if !key.Valid() {
		return decimal.Zero, false, ErrUnknownKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.best[owner][key]
	return v, ok, nil
}

func (m *memory) RecordIfBetter(_ context.Context, owner string, key Key, value decimal.Decimal, d Direction) (bool, error) {
	if !key.Valid() {
		return false, ErrUnknownKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordLocked(owner, key, value, d), nil
}

func (m *memory) recordLocked(owner string, key Key, value decimal.Decimal, d Direction) bool {
	row := m.best[owner]
	if row == nil {
		row = make(map[Key]decimal.Decimal)
		m.best[owner] = row
	}
	if cur, ok := row[key]; ok && !Better(value, cur, d) {
		return false
	}
	row[key] = value
	return true
}

func (m *memory) All(_ context.Context, owner string) (map[Key]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[Key]decimal.Decimal, len(m.best[owner]))
	for k, v := range m.best[owner] {
		out[k] = v
	}
	return out, nil
}

func (m *memory) Claim(_ context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.best[from] {
		m.recordLocked(to, k, v, k.Direction())
	}
	delete(m.best, from)
	return nil
}
