// internal/game/session.go
//
// State transition applied to a session for one accepted guess.

package game

// MaxGuesses is the guess-count threshold beyond which a session terminates
// regardless of correctness.
const MaxGuesses = 6

// ApplyGuess grades guessWords against the session's secret, increments the
// guess counter, and reports whether the session reached a terminal state
// (all words fully correct, or the guess limit exceeded). The outcome is
// returned to the caller even when the guess was terminal.
//
// A guess that fails validation (word count, dictionary, length) is not
// accepted: the counter does not move and the session stays as it was.
//
// The caller is responsible for holding the session's lock.
func (s *Session) ApplyGuess(guessWords []string, dict Lookup) (Outcome, bool, error) {
	outcome, err := GradePhrase(s.words, guessWords, dict)
	if err != nil {
		return nil, false, err
	}
	s.guessCount++
	terminal := s.guessCount > MaxGuesses || outcome.AllCorrect()
	return outcome, terminal, nil
}
