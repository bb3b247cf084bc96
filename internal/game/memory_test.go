package game_test

import (
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/arcade/internal/game"
	"github.com/robalobadob/arcade/internal/game/gametest"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newMemory(t *testing.T, opts ...game.MemoryOption) (*game.Memory, *gametest.Scheduler) {
	t.Helper()
	sched := gametest.New(epoch)
	opts = append([]game.MemoryOption{game.WithScheduler(sched), game.WithRand(game.SeededRand(42))}, opts...)
	m := game.NewMemory(opts...)
	m.Start()
	return m, sched
}

// pairOf returns the other index holding the same symbol as i.
func pairOf(t *testing.T, cards []game.Card, i int) int {
	t.Helper()
	for j, c := range cards {
		if j != i && c.Symbol == cards[i].Symbol {
			return j
		}
	}
	t.Fatalf("no pair for card %d", i)
	return -1
}

// otherThan returns the first index whose symbol differs from card i.
func otherThan(t *testing.T, cards []game.Card, i int) int {
	t.Helper()
	for j, c := range cards {
		if c.Symbol != cards[i].Symbol {
			return j
		}
	}
	t.Fatalf("every card matches card %d", i)
	return -1
}

func flippedCount(s game.MemorySnapshot) int {
	n := 0
	for _, c := range s.Cards {
		if c.Visibility == game.Flipped {
			n++
		}
	}
	return n
}

func TestNewMemoryIsIdle(t *testing.T) {
	m := game.NewMemory()
	s := m.Snapshot()
	if s.State != game.MemoryIdle {
		t.Fatalf("expected idle, got %s", s.State)
	}
	if m.Flip(0) {
		t.Error("flip on idle engine should be ignored")
	}
}

func TestStartBuildsFreshBoard(t *testing.T) {
	m, _ := newMemory(t)
	s := m.Snapshot()

	if s.State != game.MemoryPlaying {
		t.Fatalf("expected playing, got %s", s.State)
	}
	if len(s.Cards) != 16 {
		t.Fatalf("expected 16 cards, got %d", len(s.Cards))
	}
	if s.TotalPairs != 8 {
		t.Errorf("expected 8 total pairs, got %d", s.TotalPairs)
	}
	for i, c := range s.Cards {
		if c.Index != i {
			t.Errorf("card %d has index %d", i, c.Index)
		}
		if c.Visibility != game.Hidden {
			t.Errorf("card %d starts %s", i, c.Visibility)
		}
	}
}

func TestMismatchRevertsAfterDelay(t *testing.T) {
	m, sched := newMemory(t)
	cards := m.Snapshot().Cards
	other := otherThan(t, cards, 0)

	if !m.Flip(0) || !m.Flip(other) {
		t.Fatal("expected both flips to be accepted")
	}
	s := m.Snapshot()
	if s.State != game.MemoryEvaluating {
		t.Fatalf("expected evaluating, got %s", s.State)
	}
	if s.Moves != 1 {
		t.Errorf("expected 1 move, got %d", s.Moves)
	}

	sched.Advance(999 * time.Millisecond)
	if got := m.Snapshot().Cards[0].Visibility; got != game.Flipped {
		t.Fatalf("card reverted before the mismatch delay: %s", got)
	}

	sched.Advance(time.Millisecond)
	s = m.Snapshot()
	if s.State != game.MemoryPlaying {
		t.Fatalf("expected playing, got %s", s.State)
	}
	if s.Cards[0].Visibility != game.Hidden || s.Cards[other].Visibility != game.Hidden {
		t.Errorf("expected both cards hidden, got %s/%s", s.Cards[0].Visibility, s.Cards[other].Visibility)
	}
	if s.Moves != 1 || s.Pairs != 0 {
		t.Errorf("expected moves=1 pairs=0, got moves=%d pairs=%d", s.Moves, s.Pairs)
	}
}

func TestMatchMarksBothAfterDelay(t *testing.T) {
	m, sched := newMemory(t)
	cards := m.Snapshot().Cards
	pair := pairOf(t, cards, 0)

	m.Flip(0)
	m.Flip(pair)
	sched.Advance(499 * time.Millisecond)
	if m.Snapshot().Pairs != 0 {
		t.Fatal("pair resolved before the match delay")
	}

	sched.Advance(time.Millisecond)
	s := m.Snapshot()
	if s.Cards[0].Visibility != game.Matched || s.Cards[pair].Visibility != game.Matched {
		t.Errorf("expected both matched, got %s/%s", s.Cards[0].Visibility, s.Cards[pair].Visibility)
	}
	if s.Pairs != 1 {
		t.Errorf("expected 1 pair, got %d", s.Pairs)
	}
	if flippedCount(s) != 0 {
		t.Errorf("expected no flipped cards, got %d", flippedCount(s))
	}
}

func TestFlipIgnoredWhileLocked(t *testing.T) {
	m, _ := newMemory(t)
	cards := m.Snapshot().Cards
	other := otherThan(t, cards, 0)
	third := -1
	for i := range cards {
		if i != 0 && i != other {
			third = i
			break
		}
	}

	m.Flip(0)
	m.Flip(other)
	if m.Flip(third) {
		t.Error("third flip during evaluation should be ignored")
	}
	s := m.Snapshot()
	if flippedCount(s) != 2 {
		t.Errorf("expected 2 flipped cards, got %d", flippedCount(s))
	}
	if s.Moves != 1 {
		t.Errorf("expected 1 move, got %d", s.Moves)
	}
}

func TestFlipNoOps(t *testing.T) {
	m, sched := newMemory(t)
	cards := m.Snapshot().Cards
	pair := pairOf(t, cards, 0)

	tests := []struct {
		name  string
		index int
	}{
		{"negative index", -1},
		{"index past end", len(cards)},
	}
	for _, tt := range tests {
		if m.Flip(tt.index) {
			t.Errorf("%s: flip accepted", tt.name)
		}
	}

	m.Flip(0)
	if m.Flip(0) {
		t.Error("flipping an already flipped card should be ignored")
	}
	if m.Snapshot().Moves != 0 {
		t.Error("re-flipping a card must not count a move")
	}

	m.Flip(pair)
	sched.Advance(game.DefaultMatchDelay)
	before := m.Snapshot()
	if m.Flip(0) || m.Flip(pair) {
		t.Error("flipping a matched card should be ignored")
	}
	after := m.Snapshot()
	if after.Moves != before.Moves || after.Cards[0].Visibility != game.Matched {
		t.Error("flip on matched card changed state")
	}
}

func TestResetCancelsPendingResolution(t *testing.T) {
	m, sched := newMemory(t)
	cards := m.Snapshot().Cards
	pair := pairOf(t, cards, 0)

	m.Flip(0)
	m.Flip(pair)
	m.Reset()

	if sched.Pending() != 0 {
		t.Fatalf("expected pending resolution to be cancelled, %d left", sched.Pending())
	}
	sched.Advance(2 * time.Second)

	s := m.Snapshot()
	if s.Moves != 0 || s.Pairs != 0 {
		t.Errorf("expected fresh counters, got moves=%d pairs=%d", s.Moves, s.Pairs)
	}
	if s.State != game.MemoryPlaying {
		t.Errorf("expected playing, got %s", s.State)
	}
	for _, c := range s.Cards {
		if c.Visibility != game.Hidden {
			t.Fatalf("card %d is %s after reset", c.Index, c.Visibility)
		}
	}
}

// solve matches every pair in board order.
func solve(t *testing.T, m *game.Memory, sched *gametest.Scheduler) {
	t.Helper()
	cards := m.Snapshot().Cards
	done := make(map[int]bool)
	for i := range cards {
		if done[i] {
			continue
		}
		j := pairOf(t, cards, i)
		if !m.Flip(i) || !m.Flip(j) {
			t.Fatalf("flip %d/%d rejected", i, j)
		}
		done[i], done[j] = true, true
		sched.Advance(game.DefaultMatchDelay)
	}
}

func TestWinReportsMoves(t *testing.T) {
	var got []game.Outcome
	m, sched := newMemory(t, game.WithReporter(func(o game.Outcome) bool {
		got = append(got, o)
		return true
	}))

	sched.Advance(3 * time.Second)
	solve(t, m, sched)

	s := m.Snapshot()
	if s.State != game.MemoryWon {
		t.Fatalf("expected won, got %s", s.State)
	}
	if s.Pairs != 8 || s.Moves != 8 {
		t.Errorf("expected 8 pairs in 8 moves, got %d/%d", s.Pairs, s.Moves)
	}
	if len(got) != 1 {
		t.Fatalf("expected one report, got %d", len(got))
	}
	if got[0].Kind != game.KindMemory || got[0].Score.IntPart() != 8 {
		t.Errorf("unexpected outcome %+v", got[0])
	}

	res, ok := m.Result()
	if !ok {
		t.Fatal("expected a result")
	}
	if !res.NewBest {
		t.Error("expected NewBest from reporter")
	}
	if res.Rating != "Perfect memory!" {
		t.Errorf("unexpected rating %q", res.Rating)
	}
	// 3s before the first flip plus eight 500ms resolutions.
	if res.ElapsedSeconds != 7 {
		t.Errorf("expected 7 elapsed seconds, got %d", res.ElapsedSeconds)
	}
	if m.Flip(0) {
		t.Error("flip after win should be ignored")
	}
}

func TestNotWonBeforeLastPair(t *testing.T) {
	m, sched := newMemory(t, game.WithSymbols([]string{"a", "b"}))
	cards := m.Snapshot().Cards
	if len(cards) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(cards))
	}
	j := pairOf(t, cards, 0)
	m.Flip(0)
	m.Flip(j)
	sched.Advance(game.DefaultMatchDelay)
	if s := m.Snapshot(); s.State == game.MemoryWon || s.Pairs != 1 {
		t.Fatalf("expected one pair and still playing, got %s with %d pairs", s.State, s.Pairs)
	}
}

func TestViewHidesFaceDownSymbols(t *testing.T) {
	m, _ := newMemory(t)
	m.Flip(3)
	for _, c := range m.View().Cards {
		if c.Index == 3 && c.Symbol == "" {
			t.Error("flipped card should show its symbol")
		}
		if c.Index != 3 && c.Symbol != "" {
			t.Errorf("hidden card %d leaks symbol %q", c.Index, c.Symbol)
		}
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	m, sched := newMemory(t)
	cards := m.Snapshot().Cards
	other := otherThan(t, cards, 0)

	var mu sync.Mutex
	var types []game.MemoryEventType
	cancel := m.Subscribe(func(ev game.MemoryEvent) {
		mu.Lock()
		types = append(types, ev.Type)
		mu.Unlock()
	})

	m.Flip(0)
	m.Flip(other)
	sched.Advance(game.DefaultMismatchDelay)
	cancel()
	m.Flip(0)

	want := []game.MemoryEventType{game.EventFlipped, game.EventFlipped, game.EventMismatched}
	mu.Lock()
	defer mu.Unlock()
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], types[i])
		}
	}
}

func TestCloseStopsTimers(t *testing.T) {
	m, sched := newMemory(t)
	cards := m.Snapshot().Cards
	m.Flip(0)
	m.Flip(pairOf(t, cards, 0))
	m.Close()
	if sched.Pending() != 0 {
		t.Errorf("expected no pending timers after Close, got %d", sched.Pending())
	}
	sched.Advance(time.Second)
	if m.Snapshot().Pairs != 0 {
		t.Error("closed engine resolved a pair")
	}
}

func TestCloseNotifiesAndIgnoresFlips(t *testing.T) {
	m, _ := newMemory(t)
	var got []game.MemoryEventType
	m.Subscribe(func(ev game.MemoryEvent) { got = append(got, ev.Type) })

	m.Flip(0)
	m.Close()
	m.Close()

	if s := m.Snapshot(); s.State != game.MemoryIdle {
		t.Errorf("expected idle after Close, got %s", s.State)
	}
	if m.Flip(1) {
		t.Error("closed engine accepted a flip")
	}
	want := []game.MemoryEventType{game.EventFlipped, game.EventClosed}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWithSymbolsNormalizesFaces(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		cards   int
	}{
		{"empty keeps defaults", []string{}, 2 * len(game.DefaultSymbols)},
		{"repeats dropped", []string{"a", "a", "b"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sched := newMemory(t, game.WithSymbols(tt.symbols))
			s := m.Snapshot()
			if len(s.Cards) != tt.cards || s.TotalPairs != tt.cards/2 {
				t.Fatalf("expected %d cards, got %d (%d pairs)", tt.cards, len(s.Cards), s.TotalPairs)
			}
			solve(t, m, sched)
			if st := m.Snapshot().State; st != game.MemoryWon {
				t.Errorf("expected the board to be winnable, got %s", st)
			}
		})
	}
}
