// Package assets embeds the SQL migrations and the default typing word list.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed migrations/*.sql typing_words.txt
var FS embed.FS

// MigrationsDir is the directory of FS holding the *.sql migrations.
const MigrationsDir = "migrations"

// TypingWords returns the embedded typing word list, lowercased, skipping blanks and # comments.
func TypingWords() ([]string, error) {
	f, err := FS.Open("typing_words.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}
