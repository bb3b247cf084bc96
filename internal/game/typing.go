package game

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// TypingDuration is the length of a typing-speed test.
const TypingDuration = 30 * time.Second

// TypingResult is the outcome of a finished typing test.
type TypingResult struct {
	WordsTyped int    `json:"wordsTyped"`
	WPM        int    `json:"wpm"`
	Rating     string `json:"rating"`
	NewBest    bool   `json:"newBest"`
}

// TypingSnapshot is the live readout of a typing test.
type TypingSnapshot struct {
	State       RunState      `json:"state"`
	CurrentWord string        `json:"currentWord,omitempty"`
	WordsTyped  int           `json:"wordsTyped"`
	TimeLeft    int           `json:"timeLeft"` // whole seconds
	WPM         int           `json:"wpm"`      // live estimate
	Result      *TypingResult `json:"result,omitempty"`
}

// Typing shows one word at a time and counts the words typed correctly in a fixed window.
type Typing struct {
	mu       sync.Mutex
	words    []string
	rng      *rand.Rand
	sched    Scheduler
	report   Reporter
	duration time.Duration

	state     RunState
	current   string
	typed     int
	startedAt time.Time
	timer     Timer
	round     int
	result    *TypingResult
}

// NewTyping returns an idle typing test over words. sched and rng may be nil.
func NewTyping(words []string, sched Scheduler, rng *rand.Rand, report Reporter) *Typing {
	if sched == nil {
		sched = RealScheduler
	}
	if rng == nil {
		rng = newRand()
	}
	return &Typing{
		words:    words,
		rng:      rng,
		sched:    sched,
		report:   report,
		duration: TypingDuration,
		state:    RunIdle,
	}
}

// Start begins a new window with a fresh word.
func (t *Typing) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = stopTimer(t.timer)
	t.round++
	t.state = RunRunning
	t.typed = 0
	t.result = nil
	t.startedAt = t.sched.Now()
	t.nextWordLocked()
	round := t.round
	t.timer = t.sched.AfterFunc(t.duration, func() { t.finish(round) })
}

// Input submits the text box content. It reports whether it completed the current word;
// a completed word is counted and replaced.
func (t *Typing) Input(text string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != RunRunning || t.current == "" {
		return false
	}
	if strings.ToLower(strings.TrimSpace(text)) != strings.ToLower(t.current) {
		return false
	}
	t.typed++
	t.nextWordLocked()
	return true
}

// Reset returns to idle.
func (t *Typing) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = stopTimer(t.timer)
	t.round++
	t.state = RunIdle
	t.typed = 0
	t.current = ""
	t.result = nil
}

// Snapshot returns the live readout.
func (t *Typing) Snapshot() TypingSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := TypingSnapshot{
		State:       t.state,
		CurrentWord: t.current,
		WordsTyped:  t.typed,
		TimeLeft:    int(t.duration / time.Second),
	}
	switch t.state {
	case RunRunning:
		elapsed := int(t.sched.Now().Sub(t.startedAt) / time.Second)
		if elapsed > int(t.duration/time.Second) {
			elapsed = int(t.duration / time.Second)
		}
		snap.TimeLeft -= elapsed
		if elapsed > 0 {
			snap.WPM = wpm(t.typed, elapsed)
		}
	case RunFinished:
		snap.TimeLeft = 0
	}
	if t.result != nil {
		r := *t.result
		snap.Result = &r
		snap.WPM = r.WPM
	}
	return snap
}

// Close cancels the pending end-of-test timer.
func (t *Typing) Close() {
	t.mu.Lock()
	t.timer = stopTimer(t.timer)
	t.round++
	t.mu.Unlock()
}

func (t *Typing) nextWordLocked() {
	if len(t.words) == 0 {
		t.current = ""
		return
	}
	t.current = t.words[t.rng.IntN(len(t.words))]
}

func (t *Typing) finish(round int) {
	t.mu.Lock()
	if round != t.round || t.state != RunRunning {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.state = RunFinished
	t.current = ""
	w := wpm(t.typed, int(t.duration/time.Second))
	res := TypingResult{WordsTyped: t.typed, WPM: w, Rating: TypingRating(w)}
	t.result = &res
	report := t.report
	t.mu.Unlock()

	if report == nil {
		return
	}
	newBest := report(Outcome{Kind: KindTyping, Score: decimal.NewFromInt(int64(w)), Rating: res.Rating})
	t.mu.Lock()
	if t.round == round && t.result != nil {
		t.result.NewBest = newBest
	}
	t.mu.Unlock()
}

// wpm is words per minute over seconds, rounded half up.
func wpm(words, seconds int) int {
	return int(math.Floor(float64(words)/float64(seconds)*60 + 0.5))
}
