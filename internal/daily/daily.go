// internal/daily/daily.go
//
// Deterministic daily memory board.
// Everyone who plays on the same UTC date gets the same shuffle: the board seed is the
// first 8 bytes of HMAC-SHA256(salt, "YYYY-MM-DD").

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the board seed for the date of t.
func Seed(t time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
