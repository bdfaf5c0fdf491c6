// internal/game/types.go
//
// Core type definitions for the phrase-guessing engine.
// Defines:
//   - Grade: per-letter result of a guessed word (incorrect/wrong place/correct).
//   - Outcome: one row of grades per secret word.
//   - Session: mutable state of a single running game.

package game

import "fmt"

// Grade is the evaluation of a single character in a guessed word.
// Values are ordered: Incorrect < WrongPlace < Correct.
type Grade int

const (
	// GradeIncorrect: the letter has no unconsumed occurrence left in the
	// secret word (or is absent entirely).
	GradeIncorrect Grade = iota
	// GradeWrongPlace: the letter occurs at a different, not yet consumed
	// position of the secret word.
	GradeWrongPlace
	// GradeCorrect: right letter, right position.
	GradeCorrect
)

var gradeNames = [...]string{"Incorrect", "WrongPlace", "Correct"}

func (g Grade) String() string {
	if g < GradeIncorrect || g > GradeCorrect {
		return fmt.Sprintf("Grade(%d)", int(g))
	}
	return gradeNames[g]
}

// MarshalJSON encodes a Grade as its name, the wire format the frontend
// consumes ("Incorrect" | "WrongPlace" | "Correct").
func (g Grade) MarshalJSON() ([]byte, error) {
	if g < GradeIncorrect || g > GradeCorrect {
		return nil, fmt.Errorf("game: cannot marshal grade %d", int(g))
	}
	return []byte(`"` + gradeNames[g] + `"`), nil
}

// UnmarshalJSON accepts exactly the three grade names.
func (g *Grade) UnmarshalJSON(b []byte) error {
	for i, name := range gradeNames {
		if string(b) == `"`+name+`"` {
			*g = Grade(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown grade %s", b)
}

// Outcome is the full grading of one guessed phrase: one row of grades per
// secret word, rows aligned with the secret's word order.
type Outcome [][]Grade

// AllCorrect reports whether every grade in every row is GradeCorrect.
func (o Outcome) AllCorrect() bool {
	for _, row := range o {
		for _, g := range row {
			if g != GradeCorrect {
				return false
			}
		}
	}
	return true
}

// Session holds the state of a single running game: the secret words and how
// many guesses have been accepted. A Session is not safe for concurrent use
// on its own; the store wraps each one in its own lock.
type Session struct {
	words      []string
	guessCount int
}

// NewSession creates a session over the given secret words. The words are
// expected to come from phrase.Select: lowercase alphanumeric, at least one.
func NewSession(secretWords []string) *Session {
	return &Session{words: secretWords}
}

// Words returns the secret words. Handlers never reveal these; exposed for
// tests and debug logging.
func (s *Session) Words() []string { return s.words }

// GuessCount returns the number of accepted guesses so far.
func (s *Session) GuessCount() int { return s.guessCount }

// WordLengths returns the character count of each secret word in order.
func (s *Session) WordLengths() []int {
	lengths := make([]int, len(s.words))
	for i, w := range s.words {
		lengths[i] = len(w)
	}
	return lengths
}
