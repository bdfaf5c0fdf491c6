// internal/play/controller.go
//
// Game orchestration: creating sessions from a candidate source and routing
// guesses into the store.
//
// Responsibilities:
//   - CreateSession: fetch candidates for a user (or the configured default
//     user), select and normalize a secret phrase, register the session.
//   - SubmitGuess: split a raw guess phrase into words and run it through
//     the store.
//
// Notes:
//   - Source failures surface as ErrUpstreamUnavailable with the cause
//     attached; there are no retries here.

package play

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hydehsmf/trackle/internal/game"
	"github.com/hydehsmf/trackle/internal/phrase"
	"github.com/hydehsmf/trackle/internal/store"
)

// ErrUpstreamUnavailable means the candidate source could not be reached or
// answered with an error.
var ErrUpstreamUnavailable = errors.New("something went wrong while contacting LastFM")

// Controller wires the candidate source, phrase selector, dictionary and
// session store together.
type Controller struct {
	store       store.Store
	source      CandidateSource
	selector    *phrase.Selector
	dict        game.Lookup
	defaultUser string
}

// NewController builds a Controller. defaultUser is the profile consulted
// when CreateSession gets an empty user.
func NewController(st store.Store, src CandidateSource, sel *phrase.Selector, dict game.Lookup, defaultUser string) *Controller {
	return &Controller{
		store:       st,
		source:      src,
		selector:    sel,
		dict:        dict,
		defaultUser: defaultUser,
	}
}

// CreateSession starts a game over a phrase drawn from user's candidates and
// returns the session id plus the character count of each secret word.
func (c *Controller) CreateSession(ctx context.Context, user string) (uuid.UUID, []int, error) {
	if user == "" {
		user = c.defaultUser
	}
	candidates, err := c.source.Candidates(ctx, user)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	secretWords, err := c.selector.Select(candidates)
	if err != nil {
		return uuid.Nil, nil, err
	}
	s := game.NewSession(secretWords)
	lengths := s.WordLengths()
	id := c.store.Create(s)
	return id, lengths, nil
}

// SubmitGuess lowercases the guess phrase, splits it on whitespace, and
// grades it against the session under id.
func (c *Controller) SubmitGuess(id uuid.UUID, guessPhrase string) (game.Outcome, error) {
	guessWords := strings.Fields(strings.ToLower(guessPhrase))
	return c.store.SubmitGuess(id, guessWords, c.dict)
}

// ActiveSessions reports how many games are currently live.
func (c *Controller) ActiveSessions() int { return c.store.Count() }
