// internal/scores/scores.go
//
// Per-player best scores for the four minigames.
// Responsibilities:
//   - Naming the persisted keys and whether higher or lower values are better.
//   - The Store interface used by the game reporters and the /scores endpoints.
//   - Comparing a candidate against the stored best (strictly better wins, ties keep
//     the existing record).
//
// Values are exact decimals so a clicks-per-second score like 7.30 compares exactly.

package scores

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Key names one persisted best value.
type Key string

const (
	BestCPS      Key = "bestCPS"
	BestWPM      Key = "bestWPM"
	BestReaction Key = "bestReaction"
	BestMemory   Key = "bestMemory"
)

// Keys lists every known key in display order.
var Keys = []Key{BestCPS, BestWPM, BestReaction, BestMemory}

// ErrUnknownKey is returned for a key outside Keys.
var ErrUnknownKey = errors.New("unknown score key")

// Direction says which way a score improves.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// Direction returns the improvement direction of k.
func (k Key) Direction() Direction {
	switch k {
	case BestReaction, BestMemory:
		return LowerIsBetter
	}
	return HigherIsBetter
}

// Valid reports whether k is one of Keys.
func (k Key) Valid() bool {
	switch k {
	case BestCPS, BestWPM, BestReaction, BestMemory:
		return true
	}
	return false
}

// Better reports whether candidate strictly beats current in direction d.
func Better(candidate, current decimal.Decimal, d Direction) bool {
	if d == LowerIsBetter {
		return candidate.LessThan(current)
	}
	return candidate.GreaterThan(current)
}

// Store persists one best value per (owner, key).
type Store interface {
	// Best returns the stored best; ok is false when nothing has been recorded.
	Best(ctx context.Context, owner string, key Key) (value decimal.Decimal, ok bool, err error)

	// RecordIfBetter stores value when there is no prior best or value is strictly
	// better in direction d. It reports whether value became the new best.
	RecordIfBetter(ctx context.Context, owner string, key Key, value decimal.Decimal, d Direction) (bool, error)

	// All returns every recorded best of owner.
	All(ctx context.Context, owner string) (map[Key]decimal.Decimal, error)

	// Claim merges the bests of from into to, keeping the better value per key,
	// and removes the rows of from.
	Claim(ctx context.Context, from, to string) error
}
