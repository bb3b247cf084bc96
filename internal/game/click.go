package game

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ClickDuration is the length of a click-speed test.
const ClickDuration = 10 * time.Second

// RunState is the coarse state of the timed tests (click and typing).
type RunState string

const (
	RunIdle     RunState = "idle"
	RunRunning  RunState = "running"
	RunFinished RunState = "finished"
)

// ClickResult is the outcome of a finished click-speed test.
type ClickResult struct {
	Clicks  int             `json:"clicks"`
	CPS     decimal.Decimal `json:"cps"`
	Rating  string          `json:"rating"`
	NewBest bool            `json:"newBest"`
}

// ClickSnapshot is the live readout of a click-speed test.
type ClickSnapshot struct {
	State    RunState     `json:"state"`
	Clicks   int          `json:"clicks"`
	TimeLeft string       `json:"timeLeft"` // seconds, one decimal ("9.7")
	Result   *ClickResult `json:"result,omitempty"`
}

// Click counts clicks over a fixed window and reports clicks-per-second.
type Click struct {
	mu       sync.Mutex
	sched    Scheduler
	report   Reporter
	duration time.Duration

	state     RunState
	clicks    int
	startedAt time.Time
	timer     Timer
	round     int
	result    *ClickResult
}

// NewClick returns an idle click-speed test. sched may be nil for the real clock.
func NewClick(sched Scheduler, report Reporter) *Click {
	if sched == nil {
		sched = RealScheduler
	}
	return &Click{sched: sched, report: report, duration: ClickDuration, state: RunIdle}
}

// Start begins a new window, discarding any previous attempt.
func (c *Click) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = stopTimer(c.timer)
	c.round++
	c.state = RunRunning
	c.clicks = 0
	c.result = nil
	c.startedAt = c.sched.Now()
	round := c.round
	c.timer = c.sched.AfterFunc(c.duration, func() { c.finish(round) })
}

// Hit records one click. Clicks outside a running window are ignored.
func (c *Click) Hit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != RunRunning || c.sched.Now().Sub(c.startedAt) >= c.duration {
		return false
	}
	c.clicks++
	return true
}

// Reset returns to idle.
func (c *Click) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = stopTimer(c.timer)
	c.round++
	c.state = RunIdle
	c.clicks = 0
	c.result = nil
}

// Snapshot returns the live readout.
func (c *Click) Snapshot() ClickSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	left := c.duration
	switch c.state {
	case RunRunning:
		left = c.duration - c.sched.Now().Sub(c.startedAt)
		if left < 0 {
			left = 0
		}
	case RunFinished:
		left = 0
	}
	snap := ClickSnapshot{
		State:    c.state,
		Clicks:   c.clicks,
		TimeLeft: decimal.NewFromFloat(left.Seconds()).StringFixed(1),
	}
	if c.result != nil {
		r := *c.result
		snap.Result = &r
	}
	return snap
}

// Close cancels the pending end-of-test timer.
func (c *Click) Close() {
	c.mu.Lock()
	c.timer = stopTimer(c.timer)
	c.round++
	c.mu.Unlock()
}

func (c *Click) finish(round int) {
	c.mu.Lock()
	if round != c.round || c.state != RunRunning {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.state = RunFinished
	cps := decimal.NewFromInt(int64(c.clicks)).
		Div(decimal.NewFromFloat(c.duration.Seconds())).
		Round(2)
	res := ClickResult{Clicks: c.clicks, CPS: cps, Rating: ClickRating(cps)}
	c.result = &res
	report := c.report
	c.mu.Unlock()

	if report == nil {
		return
	}
	newBest := report(Outcome{Kind: KindClick, Score: cps, Rating: res.Rating})
	c.mu.Lock()
	if c.round == round && c.result != nil {
		c.result.NewBest = newBest
	}
	c.mu.Unlock()
}
