// internal/words/words.go
//
// Word list for the typing-speed test.
//
// Responsibilities:
//   - Load the list from TYPING_WORDS_FILE when set, otherwise from the embedded default.
//   - Normalize entries (trimmed, lowercase, letters only, no duplicates).
//   - Initialize exactly once (sync.Once); later calls return the first outcome.
//
// Environment variables:
//   TYPING_WORDS_FILE=/path/to/words.txt   (one word per line, # comments allowed)

package words

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/arcade/assets"
)

var (
	initOnce   sync.Once
	list       []string
	initialErr error
)

// Init loads the word list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("TYPING_WORDS_FILE"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				initialErr = err
				return
			}
			defer f.Close()
			list, initialErr = readWords(f)
		} else {
			var raw []string
			raw, initialErr = assets.TypingWords()
			list = normalize(raw)
		}
		if initialErr == nil && len(list) == 0 {
			initialErr = errors.New("words: typing word list is empty")
		}
	})
	return initialErr
}

// List returns the loaded words. Callers must not modify the slice.
func List() []string {
	_ = Init()
	return list
}

func readWords(r io.Reader) ([]string, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, line)
	}
	return normalize(raw), sc.Err()
}

// normalize lowercases, drops non-alphabetic entries and duplicates, and keeps order.
func normalize(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
