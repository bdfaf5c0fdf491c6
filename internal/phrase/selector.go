// internal/phrase/selector.go
//
// Candidate phrase selection and normalization.
//
// Responsibilities:
//   - Filter raw candidate strings down to the ones that can produce a
//     playable secret (at least one ASCII letter or digit).
//   - Pick one survivor uniformly at random.
//   - Normalize it to lowercase alphanumeric words.
//
// Notes:
//   - The pre-filter runs on the raw string, before normalization. Any
//     candidate with a single letter or digit anywhere survives, which is
//     what guarantees the normalized result splits into at least one word.
//   - The random source is an interface so tests can pin the pick; prod
//     uses the process-wide math/rand source.

package phrase

import (
	"errors"
	"math/rand"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// ErrNoCandidates means the candidate list was empty or nothing in it
// survived the pre-filter.
var ErrNoCandidates = errors.New("no usable phrase candidates")

// Rand is the slice of math/rand the selector needs.
type Rand interface {
	Intn(n int) int
}

// SystemRand adapts the process-wide math/rand source.
type SystemRand struct{}

func (SystemRand) Intn(n int) int { return rand.Intn(n) }

// Selector picks secret phrases from candidate lists.
type Selector struct {
	rng Rand
}

// NewSelector returns a Selector drawing from rng, or from the process-wide
// source when rng is nil.
func NewSelector(rng Rand) *Selector {
	if rng == nil {
		rng = SystemRand{}
	}
	return &Selector{rng: rng}
}

// Select picks one candidate uniformly at random from the usable ones and
// returns it as normalized secret words. Every returned word is non-empty
// lowercase ASCII alphanumeric.
func (s *Selector) Select(candidates []string) ([]string, error) {
	usable := lo.Filter(candidates, func(c string, _ int) bool {
		return hasAlphanumeric(c)
	})
	if len(usable) == 0 {
		return nil, ErrNoCandidates
	}
	chosen := usable[s.rng.Intn(len(usable))]
	return strings.Fields(Normalize(chosen)), nil
}

// Normalize lowercases ASCII letters, keeps digits and whitespace, and drops
// everything else (accents, punctuation, symbols) with no substitution.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasAlphanumeric(raw string) bool {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}
