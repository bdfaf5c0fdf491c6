// internal/game/engine.go
//
// Grading of guessed words and phrases.
//
// Responsibilities:
//   - GradeWord: two-pass per-letter grading of one word against one secret
//     word, with consumption semantics that cap duplicate letters.
//   - GradePhrase: word-count check, per-word dictionary validation, and
//     word-by-word grading of a whole guessed phrase.
//
// Notes:
//   - Words are lowercase ASCII alphanumerics by the time they reach this
//     package (phrase normalization and request parsing guarantee it), so
//     all grading works on bytes.

package game

import "fmt"

// Lookup reports dictionary membership for guessed words that do not match
// their secret word exactly.
type Lookup interface {
	Contains(word string) bool
}

// LengthMismatchError reports a guessed word whose length differs from the
// secret word it is aligned with.
type LengthMismatchError struct {
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("word length mismatch: want %d characters, got %d", e.Expected, e.Actual)
}

// WordCountMismatchError reports a guessed phrase with the wrong number of
// words.
type WordCountMismatchError struct {
	Expected int
	Actual   int
}

func (e *WordCountMismatchError) Error() string {
	return fmt.Sprintf("word count mismatch: want %d words, got %d", e.Expected, e.Actual)
}

// UnknownWordError reports a guessed word that neither matches its secret
// word nor appears in the dictionary.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("%q is not a word", e.Word)
}

// GradeWord grades one guessed word against one secret word.
//
// Pass 1 marks exact positional matches Correct and consumes both the guess
// and secret position. Pass 2 walks the remaining guess positions left to
// right; each claims the leftmost unconsumed secret position holding the
// same letter (WrongPlace) or stays Incorrect. Because matched secret
// positions are consumed, Correct+WrongPlace for any letter never exceeds
// that letter's count in the secret, and ties between duplicates go to the
// earliest secret occurrence.
func GradeWord(secret, guess string) ([]Grade, error) {
	if len(secret) != len(guess) {
		return nil, &LengthMismatchError{Expected: len(secret), Actual: len(guess)}
	}

	grades := make([]Grade, len(guess))
	consumed := make([]bool, len(secret))

	for i := 0; i < len(guess); i++ {
		if guess[i] == secret[i] {
			grades[i] = GradeCorrect
			consumed[i] = true
		}
	}
	for i := 0; i < len(guess); i++ {
		if grades[i] == GradeCorrect {
			continue
		}
		for j := 0; j < len(secret); j++ {
			if !consumed[j] && secret[j] == guess[i] {
				grades[i] = GradeWrongPlace
				consumed[j] = true
				break
			}
		}
	}
	return grades, nil
}

// GradePhrase grades a guessed phrase word by word against the secret words.
// Validation is eager and in order: the first word that fails the dictionary
// check or the length check aborts grading with that word's error, whatever
// comes after it.
func GradePhrase(secretWords, guessWords []string, dict Lookup) (Outcome, error) {
	if len(secretWords) != len(guessWords) {
		return nil, &WordCountMismatchError{Expected: len(secretWords), Actual: len(guessWords)}
	}

	outcome := make(Outcome, 0, len(secretWords))
	for i, secret := range secretWords {
		guess := guessWords[i]
		if guess != secret && !dict.Contains(guess) {
			return nil, &UnknownWordError{Word: guess}
		}
		grades, err := GradeWord(secret, guess)
		if err != nil {
			return nil, err
		}
		outcome = append(outcome, grades)
	}
	return outcome, nil
}
