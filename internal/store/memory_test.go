package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSession struct {
	id, owner string
	closed    int
}

func (f *fakeSession) ID() string    { return f.id }
func (f *fakeSession) Owner() string { return f.owner }
func (f *fakeSession) Close()        { f.closed++ }

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := &fakeSession{id: "a", owner: "p"}
	_ = st.Save(ctx, s)

	got, err := st.Get(ctx, "a")
	if err != nil || got != s {
		t.Fatalf("get: %v %v", got, err)
	}
	_ = st.Delete(ctx, "a")
	if s.closed != 1 {
		t.Errorf("delete should close the session, closed=%d", s.closed)
	}
	if _, err := st.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := st.Delete(ctx, "a"); err != nil {
		t.Errorf("deleting an unknown id should be a no-op, got %v", err)
	}
}

func TestEvictClosesIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &memory{sessions: make(map[string]*entry), now: func() time.Time { return clock }}

	idle := &fakeSession{id: "idle"}
	busy := &fakeSession{id: "busy"}
	_ = m.Save(ctx, idle)
	_ = m.Save(ctx, busy)

	clock = clock.Add(time.Hour)
	_, _ = m.Get(ctx, "busy")

	if n := m.Evict(ctx, clock.Add(-time.Minute)); n != 1 {
		t.Fatalf("expected 1 eviction, got %d", n)
	}
	if idle.closed != 1 || busy.closed != 0 {
		t.Errorf("unexpected closes idle=%d busy=%d", idle.closed, busy.closed)
	}
	if Len(m) != 1 {
		t.Errorf("expected 1 live session, got %d", Len(m))
	}
}

func TestTouchDefersEviction(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &memory{sessions: make(map[string]*entry), now: func() time.Time { return clock }}

	s := &fakeSession{id: "ws"}
	_ = m.Save(ctx, s)
	clock = clock.Add(time.Hour)
	if err := m.Touch(ctx, "ws"); err != nil {
		t.Fatalf("touch: %v", err)
	}

	if n := m.Evict(ctx, clock.Add(-time.Minute)); n != 0 {
		t.Errorf("touched session was evicted")
	}
	if s.closed != 0 {
		t.Errorf("touched session was closed %d times", s.closed)
	}
	if err := m.Touch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
