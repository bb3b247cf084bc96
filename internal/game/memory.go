// internal/game/memory.go
//
// Memory-match engine for a single game panel.
// Responsibilities:
//   - Build a shuffled board of paired symbols on Start/Reset.
//   - Accept flips, allowing at most two face-up unmatched cards at a time.
//   - Resolve each pair after a short visual delay (match → matched, mismatch → hidden).
//   - Detect the win, grade it and report the move count as a lower-is-better score.
//   - Notify subscribers of every state change so a presentation layer can redraw.
//
// State transitions:
//   idle → playing            Start/Reset
//   playing → playing         first flip of a pair
//   playing → evaluating      second flip (moves++, flip-lock held)
//   evaluating → playing      delayed resolution
//   evaluating → won          delayed resolution of the last pair
//
// Invalid flips (unknown index, card not hidden, lock held, not playing) are silent no-ops.

package game

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultMatchDelay    = 500 * time.Millisecond
	DefaultMismatchDelay = 1000 * time.Millisecond
)

// Visibility is the face state of a single card.
type Visibility string

const (
	Hidden  Visibility = "hidden"
	Flipped Visibility = "flipped"
	Matched Visibility = "matched"
)

// MemoryState is the coarse state of the engine.
type MemoryState string

const (
	MemoryIdle       MemoryState = "idle"
	MemoryPlaying    MemoryState = "playing"
	MemoryEvaluating MemoryState = "evaluating"
	MemoryWon        MemoryState = "won"
)

// Card is one board position.
type Card struct {
	Index      int        `json:"index"`
	Symbol     string     `json:"symbol,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// MemoryResult is the final outcome of a won game.
type MemoryResult struct {
	Moves          int           `json:"moves"`
	Elapsed        time.Duration `json:"-"`
	ElapsedSeconds int64         `json:"elapsedSeconds"`
	Rating         string        `json:"rating"`
	NewBest        bool          `json:"newBest"`
}

// MemorySnapshot is a point-in-time copy of the engine state.
type MemorySnapshot struct {
	State      MemoryState   `json:"state"`
	Cards      []Card        `json:"cards"`
	Moves      int           `json:"moves"`
	Pairs      int           `json:"pairs"`
	TotalPairs int           `json:"totalPairs"`
	Result     *MemoryResult `json:"result,omitempty"`
}

// MemoryEventType names a state change.
type MemoryEventType string

const (
	EventStarted    MemoryEventType = "started"
	EventFlipped    MemoryEventType = "flipped"
	EventMatched    MemoryEventType = "matched"
	EventMismatched MemoryEventType = "mismatched"
	EventWon        MemoryEventType = "won"
	EventClosed     MemoryEventType = "closed" // last event; the engine accepts nothing after it
)

// MemoryEvent carries enough for a presentation layer to update the affected
// cards and the counters without re-reading the whole board.
type MemoryEvent struct {
	Type   MemoryEventType `json:"type"`
	State  MemoryState     `json:"state"`
	Cards  []Card          `json:"cards,omitempty"`
	Moves  int             `json:"moves"`
	Pairs  int             `json:"pairs"`
	Result *MemoryResult   `json:"result,omitempty"`
}

// MemoryOption configures a Memory engine.
type MemoryOption func(*Memory)

// WithSymbols sets the card faces (default DefaultSymbols). Repeated faces are
// dropped; an empty list keeps the defaults.
func WithSymbols(symbols []string) MemoryOption {
	return func(m *Memory) {
		seen := make(map[string]bool, len(symbols))
		var uniq []string
		for _, s := range symbols {
			if !seen[s] {
				seen[s] = true
				uniq = append(uniq, s)
			}
		}
		if len(uniq) > 0 {
			m.symbols = uniq
		}
	}
}

// WithRand sets the shuffle source, e.g. SeededRand for a fixed board.
func WithRand(rng *rand.Rand) MemoryOption {
	return func(m *Memory) { m.rng = rng }
}

// WithScheduler sets the clock and timer source.
func WithScheduler(s Scheduler) MemoryOption {
	return func(m *Memory) { m.sched = s }
}

// WithDelays sets how long a resolved pair stays visible before it is marked
// matched or turned back over.
func WithDelays(match, mismatch time.Duration) MemoryOption {
	return func(m *Memory) { m.matchDelay, m.mismatchDelay = match, mismatch }
}

// WithReporter sets the callback that receives the final move count.
func WithReporter(r Reporter) MemoryOption {
	return func(m *Memory) { m.report = r }
}

// Memory is a memory-match engine. The zero value is not usable; call NewMemory.
type Memory struct {
	mu sync.Mutex

	symbols       []string
	rng           *rand.Rand
	sched         Scheduler
	matchDelay    time.Duration
	mismatchDelay time.Duration
	report        Reporter

	state     MemoryState
	cards     []Card
	flipped   []int
	moves     int
	pairs     int
	startedAt time.Time
	pending   Timer
	round     int // bumped on every Start; stale resolutions compare against it
	result    *MemoryResult

	listeners  map[int]func(MemoryEvent)
	nextListen int
}

// NewMemory returns an idle engine.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		symbols:       DefaultSymbols,
		sched:         RealScheduler,
		matchDelay:    DefaultMatchDelay,
		mismatchDelay: DefaultMismatchDelay,
		state:         MemoryIdle,
		listeners:     make(map[int]func(MemoryEvent)),
	}
	for _, o := range opts {
		o(m)
	}
	if m.rng == nil {
		m.rng = newRand()
	}
	return m
}

// Start builds a fresh board and begins a new round, discarding any previous one.
func (m *Memory) Start() {
	m.mu.Lock()
	m.pending = stopTimer(m.pending)
	m.round++
	m.cards = m.cards[:0]
	for i, s := range NewBoard(m.symbols, m.rng) {
		m.cards = append(m.cards, Card{Index: i, Symbol: s, Visibility: Hidden})
	}
	m.flipped = nil
	m.moves, m.pairs = 0, 0
	m.result = nil
	m.startedAt = m.sched.Now()
	m.state = MemoryPlaying
	ev := m.eventLocked(EventStarted)
	m.mu.Unlock()

	m.emit(ev)
}

// Reset is Start under the name the UI uses for its "new game" button.
func (m *Memory) Reset() { m.Start() }

// Flip turns card index face up. It reports whether the flip was accepted.
func (m *Memory) Flip(index int) bool {
	m.mu.Lock()
	if m.state != MemoryPlaying || index < 0 || index >= len(m.cards) {
		m.mu.Unlock()
		return false
	}
	c := &m.cards[index]
	if c.Visibility != Hidden {
		m.mu.Unlock()
		return false
	}
	c.Visibility = Flipped
	m.flipped = append(m.flipped, index)
	ev := m.eventLocked(EventFlipped, index)

	if len(m.flipped) == 2 {
		m.moves++
		ev.Moves = m.moves
		m.state = MemoryEvaluating
		ev.State = m.state
		a, b := m.flipped[0], m.flipped[1]
		delay := m.mismatchDelay
		if m.cards[a].Symbol == m.cards[b].Symbol {
			delay = m.matchDelay
		}
		round := m.round
		m.pending = m.sched.AfterFunc(delay, func() { m.resolve(round) })
	}
	m.mu.Unlock()

	m.emit(ev)
	return true
}

// resolve settles the two flipped cards of the given round.
func (m *Memory) resolve(round int) {
	m.mu.Lock()
	if round != m.round || m.state != MemoryEvaluating || len(m.flipped) != 2 {
		m.mu.Unlock()
		return
	}
	m.pending = nil
	a, b := m.flipped[0], m.flipped[1]
	m.flipped = nil

	var ev MemoryEvent
	if m.cards[a].Symbol == m.cards[b].Symbol {
		m.cards[a].Visibility = Matched
		m.cards[b].Visibility = Matched
		m.pairs++
		m.state = MemoryPlaying
		ev = m.eventLocked(EventMatched, a, b)
	} else {
		m.cards[a].Visibility = Hidden
		m.cards[b].Visibility = Hidden
		m.state = MemoryPlaying
		ev = m.eventLocked(EventMismatched, a, b)
	}

	if m.pairs < len(m.symbols) {
		m.mu.Unlock()
		m.emit(ev)
		return
	}

	m.state = MemoryWon
	ev.State = m.state
	elapsed := m.sched.Now().Sub(m.startedAt)
	res := MemoryResult{
		Moves:          m.moves,
		Elapsed:        elapsed,
		ElapsedSeconds: int64(math.Round(elapsed.Seconds())),
		Rating:         MemoryRating(m.moves),
	}
	m.result = &res
	report := m.report
	m.mu.Unlock()
	m.emit(ev)

	if report != nil {
		newBest := report(Outcome{Kind: KindMemory, Score: decimal.NewFromInt(int64(res.Moves)), Rating: res.Rating})
		m.mu.Lock()
		if m.round == round && m.result != nil {
			m.result.NewBest = newBest
		}
		m.mu.Unlock()
		res.NewBest = newBest
	}

	m.mu.Lock()
	won := MemoryEvent{Type: EventWon, State: MemoryWon, Moves: res.Moves, Pairs: len(m.symbols), Result: &res}
	stale := m.round != round
	m.mu.Unlock()
	if !stale {
		m.emit(won)
	}
}

// Snapshot returns a copy of the full engine state, symbols included.
func (m *Memory) Snapshot() MemorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := MemorySnapshot{
		State:      m.state,
		Cards:      append([]Card{}, m.cards...),
		Moves:      m.moves,
		Pairs:      m.pairs,
		TotalPairs: len(m.symbols),
	}
	if m.result != nil {
		r := *m.result
		snap.Result = &r
	}
	return snap
}

// View is Snapshot with the symbols of face-down cards removed.
func (m *Memory) View() MemorySnapshot {
	snap := m.Snapshot()
	for i := range snap.Cards {
		if snap.Cards[i].Visibility == Hidden {
			snap.Cards[i].Symbol = ""
		}
	}
	return snap
}

// Result returns the outcome once the game is won.
func (m *Memory) Result() (MemoryResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result == nil {
		return MemoryResult{}, false
	}
	return *m.result, true
}

// Subscribe registers fn for state-change events and returns a function that removes it.
// fn runs on the goroutine that caused the change and must not call back into the engine
// synchronously in a way that waits for another event.
func (m *Memory) Subscribe(fn func(MemoryEvent)) (cancel func()) {
	m.mu.Lock()
	id := m.nextListen
	m.nextListen++
	m.listeners[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Close cancels any pending resolution, returns the engine to idle and drops all
// subscribers after sending them EventClosed. Flips are ignored until the next Start.
func (m *Memory) Close() {
	m.mu.Lock()
	m.pending = stopTimer(m.pending)
	m.round++
	m.state = MemoryIdle
	m.flipped = nil
	fns := make([]func(MemoryEvent), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.listeners = make(map[int]func(MemoryEvent))
	ev := MemoryEvent{Type: EventClosed, State: m.state, Moves: m.moves, Pairs: m.pairs}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// eventLocked builds an event describing the given cards. Caller holds m.mu.
func (m *Memory) eventLocked(t MemoryEventType, indices ...int) MemoryEvent {
	ev := MemoryEvent{Type: t, State: m.state, Moves: m.moves, Pairs: m.pairs}
	for _, i := range indices {
		ev.Cards = append(ev.Cards, m.cards[i])
	}
	return ev
}

func (m *Memory) emit(ev MemoryEvent) {
	m.mu.Lock()
	fns := make([]func(MemoryEvent), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
