// internal/store/memory.go
//
// In-memory container for running game sessions.
//
// Characteristics:
//   - Sessions are keyed by a random UUID handed out at creation.
//   - State lives only in this process and is lost on restart.
//   - Finished sessions are removed; their ids then behave like unknown ids.
//
// Locking discipline:
//   - An outer RWMutex guards the map structure only: insert, remove, and
//     lookup of an entry handle. It is never held while grading.
//   - Each entry carries its own Mutex guarding that one session's fields,
//     so guesses against distinct sessions never contend.
//   - SubmitGuess resolves the entry under the outer read lock, releases it,
//     grades under the entry lock alone, then removes a terminal session
//     under the outer write lock. No step holds both locks at once, so no
//     ordering cycle can form.
//
// Between the entry-lock release and the removal there is a window where a
// concurrent guess for the same id still finds the entry and is graded
// normally; the guess counter can pass the limit by more than one. That
// extra guess gets an ordinary result, the entry is removed regardless, and
// every later lookup misses. Callers must not rely on the limit being exact
// under concurrent fire at one session.

package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hydehsmf/trackle/internal/game"
)

// ErrNoSession means the id does not map to a live session. Finished games
// are removed from the store, so they report the same way as ids that never
// existed.
var ErrNoSession = errors.New("no such session")

// Store owns all running game sessions.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create registers a session and returns its id.
	Create(s *game.Session) uuid.UUID

	// SubmitGuess grades guessWords against the session's secret and applies
	// the resulting state transition, removing the session once it wins or
	// runs out of guesses.
	SubmitGuess(id uuid.UUID, guessWords []string, dict game.Lookup) (game.Outcome, error)

	// Count reports how many sessions are live.
	Count() int
}

// entry pairs one session with the lock that guards it.
type entry struct {
	mu      sync.Mutex
	session *game.Session
}

// memory is the in-process map-based Store implementation.
type memory struct {
	mu       sync.RWMutex          // guards sessions map
	sessions map[uuid.UUID]*entry  // keyed by session id
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[uuid.UUID]*entry)}
}

// Create inserts the session under a fresh id. The write lock is held only
// for the map insert.
func (m *memory) Create(s *game.Session) uuid.UUID {
	id := uuid.New()
	m.mu.Lock()
	m.sessions[id] = &entry{session: s}
	m.mu.Unlock()
	return id
}

// SubmitGuess runs one guess through the session found under id.
func (m *memory) SubmitGuess(id uuid.UUID, guessWords []string, dict game.Lookup) (game.Outcome, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}

	e.mu.Lock()
	outcome, terminal, err := e.session.ApplyGuess(guessWords, dict)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if terminal {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	}
	return outcome, nil
}

// Count reports the number of live sessions.
func (m *memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
