// internal/words/words.go
//
// Guess dictionary for the game engine.
//
// Responsibilities:
//   - Load the dictionary from an environment-provided file or fall back to
//     the embedded default list.
//   - Partition words by length so lookups during grading stay O(1)-ish.
//
// Initialization behavior (Load):
//   1. If WORDS_FILE is set, read one word per line from that file.
//   2. Otherwise fall back to the embedded `default_words.txt`.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt
//
// Constraints:
//   • Words are normalized to lowercase; anything outside [a-z0-9] is skipped.
//   • The loaded list is immutable; failure to load is fatal at startup
//     (the caller decides, this package just returns the error).

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// --- embedded default (ensures the server runs even if no file configured) ---

//go:embed default_words.txt
var embeddedWords string

// List is an immutable dictionary partitioned by word length.
type List struct {
	byLen map[int]map[string]struct{}
	count int
}

// Load builds a List from the file named by WORDS_FILE, or from the embedded
// default list when the variable is unset.
func Load() (*List, error) {
	path := os.Getenv("WORDS_FILE")
	if path == "" {
		return FromReader(strings.NewReader(embeddedWords))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	l, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return l, nil
}

// FromReader builds a List from one word per line of r, lowercasing and
// skipping anything that is not purely [a-z0-9] after trimming.
func FromReader(r io.Reader) (*List, error) {
	byLen := make(map[int]map[string]struct{})
	count := 0
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || !isWord(w) {
			continue
		}
		set := byLen[len(w)]
		if set == nil {
			set = make(map[string]struct{})
			byLen[len(w)] = set
		}
		if _, dup := set[w]; !dup {
			set[w] = struct{}{}
			count++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.New("word list is empty")
	}
	return &List{byLen: byLen, count: count}, nil
}

// Contains reports whether word is in the list. Matching is exact; callers
// pass already-lowercased words.
func (l *List) Contains(word string) bool {
	set, ok := l.byLen[len(word)]
	if !ok {
		return false
	}
	_, ok = set[word]
	return ok
}

// Count returns the number of distinct words loaded.
func (l *List) Count() int { return l.count }

// Lengths returns the distinct word lengths present, ascending.
func (l *List) Lengths() []int {
	out := make([]int, 0, len(l.byLen))
	for n := range l.byLen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// isWord reports whether s is lowercase ASCII letters and digits only.
func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
