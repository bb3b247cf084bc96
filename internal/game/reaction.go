package game

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ReactionMinDelay and ReactionMaxDelay bound the random wait before the box turns green.
	ReactionMinDelay = 1 * time.Second
	ReactionMaxDelay = 5 * time.Second

	// ReactionMinAttempts is the number of attempts before a summary is computed and reported.
	ReactionMinAttempts = 3
)

// ReactionState is the state of the reaction box.
type ReactionState string

const (
	ReactionIdle    ReactionState = "idle"
	ReactionWaiting ReactionState = "waiting"
	ReactionReady   ReactionState = "ready"
)

// ClickKind describes what a click on the reaction box did.
type ClickKind string

const (
	ClickStarted  ClickKind = "started"   // idle → waiting
	ClickTooEarly ClickKind = "too_early" // clicked before green
	ClickRecorded ClickKind = "recorded"  // reaction time measured
)

// ReactionClick is the effect of one click.
type ReactionClick struct {
	Kind   ClickKind `json:"kind"`
	TimeMs int64     `json:"timeMs,omitempty"`
}

// ReactionSummary aggregates the attempts once there are enough of them.
type ReactionSummary struct {
	BestMs    int64  `json:"bestMs"`
	AverageMs int64  `json:"averageMs"`
	Rating    string `json:"rating"`
	NewBest   bool   `json:"newBest"`
}

// ReactionSnapshot is the live state of the reaction test.
type ReactionSnapshot struct {
	State    ReactionState    `json:"state"`
	TooEarly bool             `json:"tooEarly"`
	Attempts []int64          `json:"attempts"`
	Summary  *ReactionSummary `json:"summary,omitempty"`
}

// Reaction measures the time between the box turning green and the next click.
type Reaction struct {
	mu     sync.Mutex
	sched  Scheduler
	rng    *rand.Rand
	report Reporter

	state    ReactionState
	tooEarly bool
	readyAt  time.Time
	timer    Timer
	round    int
	times    []int64
	summary  *ReactionSummary
}

// NewReaction returns an idle reaction test. sched and rng may be nil.
func NewReaction(sched Scheduler, rng *rand.Rand, report Reporter) *Reaction {
	if sched == nil {
		sched = RealScheduler
	}
	if rng == nil {
		rng = newRand()
	}
	return &Reaction{sched: sched, rng: rng, report: report, state: ReactionIdle}
}

// Click handles a click on the reaction box.
func (r *Reaction) Click() ReactionClick {
	r.mu.Lock()
	switch r.state {
	case ReactionWaiting:
		r.timer = stopTimer(r.timer)
		r.round++
		r.state = ReactionIdle
		r.tooEarly = true
		r.mu.Unlock()
		return ReactionClick{Kind: ClickTooEarly}

	case ReactionReady:
		ms := r.sched.Now().Sub(r.readyAt).Milliseconds()
		r.times = append(r.times, ms)
		r.state = ReactionIdle
		var summary *ReactionSummary
		if s := r.summarizeLocked(); s != nil {
			cp := *s
			summary = &cp
		}
		round, report := r.round, r.report
		r.mu.Unlock()
		if summary != nil && report != nil {
			r.reportBest(report, *summary, round)
		}
		return ReactionClick{Kind: ClickRecorded, TimeMs: ms}
	}

	r.tooEarly = false
	r.state = ReactionWaiting
	span := int64(ReactionMaxDelay - ReactionMinDelay)
	delay := ReactionMinDelay + time.Duration(r.rng.Int64N(span))
	r.round++
	round := r.round
	r.timer = r.sched.AfterFunc(delay, func() { r.ready(round) })
	r.mu.Unlock()
	return ReactionClick{Kind: ClickStarted}
}

// Reset clears all attempts and cancels a pending round.
func (r *Reaction) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timer = stopTimer(r.timer)
	r.round++
	r.state = ReactionIdle
	r.tooEarly = false
	r.times = nil
	r.summary = nil
}

// Snapshot returns the current state and attempt history.
func (r *Reaction) Snapshot() ReactionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := ReactionSnapshot{
		State:    r.state,
		TooEarly: r.tooEarly,
		Attempts: append([]int64{}, r.times...),
	}
	if r.summary != nil {
		s := *r.summary
		snap.Summary = &s
	}
	return snap
}

// Close cancels a pending round.
func (r *Reaction) Close() {
	r.mu.Lock()
	r.timer = stopTimer(r.timer)
	r.round++
	r.mu.Unlock()
}

func (r *Reaction) ready(round int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if round != r.round || r.state != ReactionWaiting {
		return
	}
	r.timer = nil
	r.state = ReactionReady
	r.readyAt = r.sched.Now()
}

// summarizeLocked recomputes the summary once there are enough attempts.
func (r *Reaction) summarizeLocked() *ReactionSummary {
	if len(r.times) < ReactionMinAttempts {
		return nil
	}
	best, sum := r.times[0], int64(0)
	for _, t := range r.times {
		sum += t
		if t < best {
			best = t
		}
	}
	avg := int64(math.Floor(float64(sum)/float64(len(r.times)) + 0.5))
	r.summary = &ReactionSummary{BestMs: best, AverageMs: avg, Rating: ReactionRating(avg)}
	return r.summary
}

func (r *Reaction) reportBest(report Reporter, s ReactionSummary, round int) {
	newBest := report(Outcome{Kind: KindReaction, Score: decimal.NewFromInt(s.BestMs), Rating: s.Rating})
	r.mu.Lock()
	if r.round == round && r.summary != nil {
		r.summary.NewBest = newBest
	}
	r.mu.Unlock()
}
