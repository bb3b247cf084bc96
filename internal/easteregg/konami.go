// Package easteregg detects the Konami code in a stream of key codes.
package easteregg

import "sync"

// DefaultMessage is shown when the sequence completes.
const DefaultMessage = "You found the secret! Go Rose-Hulman!"

// Konami is the key-code sequence the detector waits for.
var Konami = []string{
	"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown",
	"ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight",
	"KeyB", "KeyA",
}

// Detector tracks progress through a key sequence.
//
// A wrong key resets progress to zero without being re-checked against the first
// key, so "ArrowUp ArrowUp ArrowUp ArrowDown..." does not complete the code.
type Detector struct {
	mu       sync.Mutex
	sequence []string
	pos      int
}

// NewDetector returns a detector for sequence, or for Konami when sequence is empty.
func NewDetector(sequence ...string) *Detector {
	if len(sequence) == 0 {
		sequence = Konami
	}
	return &Detector{sequence: sequence}
}

// Press feeds one key code and reports whether it completed the sequence.
// Progress resets after a completion.
func (d *Detector) Press(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if code != d.sequence[d.pos] {
		d.pos = 0
		return false
	}
	d.pos++
	if d.pos == len(d.sequence) {
		d.pos = 0
		return true
	}
	return false
}

// Progress returns how many keys of the sequence have been matched so far.
func (d *Detector) Progress() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos
}
