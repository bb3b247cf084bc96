// internal/game/types.go
//
// Shared type definitions for the minigame engines.
// Defines:
//   - Kind: which minigame a session runs.
//   - Outcome/Reporter: how a finished game hands its final metric to the score store.
//   - Scheduler/Timer: the clock and one-shot timers that drive delayed transitions.

package game

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies a minigame.
type Kind string

const (
	KindClick    Kind = "click"
	KindTyping   Kind = "typing"
	KindMemory   Kind = "memory"
	KindReaction Kind = "reaction"
)

// Outcome is the final metric of a finished game, as compared against the persisted best.
type Outcome struct {
	Kind   Kind            // Which game produced it.
	Score  decimal.Decimal // CPS, WPM, best reaction ms or memory moves.
	Rating string          // Human-readable rating line.
}

// Reporter receives an Outcome and reports whether it became the new best.
// Engines call it outside their own lock; it may block on I/O.
type Reporter func(Outcome) bool

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran or was stopped.
	Stop() bool
}

// Scheduler supplies wall-clock time and one-shot delayed callbacks.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) Now() time.Time { return time.Now() }

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealScheduler is backed by the time package.
var RealScheduler Scheduler = realScheduler{}

// stopTimer stops t if set and returns nil, for `x.timer = stopTimer(x.timer)`.
func stopTimer(t Timer) Timer {
	if t != nil {
		t.Stop()
	}
	return nil
}
