package game

import "math/rand/v2"

// DefaultSymbols are the eight card faces of the memory game.
var DefaultSymbols = []string{"🐍", "☕", "⚛️", "🟨", "🦀", "💎", "🐘", "🔷"}

// NewBoard returns every symbol twice, in a uniformly shuffled order.
// The symbols are expected to be unique; the board length is always 2*len(symbols).
func NewBoard(symbols []string, rng *rand.Rand) []string {
	board := make([]string, 0, 2*len(symbols))
	board = append(board, symbols...)
	board = append(board, symbols...)
	Shuffle(board, rng)
	return board
}

// Shuffle permutes s in place with Fisher–Yates.
func Shuffle[T any](s []T, rng *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// SeededRand returns a PCG-backed source that always yields the same sequence for seed.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newRand returns an independently seeded source. *rand.Rand is not safe for
// concurrent use, so every engine owns one.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
