// internal/httpserver/routes_game.go
//
// Game endpoints: session creation, guessing, and the top-albums passthrough
// the web client uses for its library browser.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hydehsmf/trackle/internal/game"
	"github.com/hydehsmf/trackle/internal/lastfm"
	"github.com/hydehsmf/trackle/internal/phrase"
	"github.com/hydehsmf/trackle/internal/play"
	"github.com/hydehsmf/trackle/internal/store"
)

// newGameReq/Res payloads for POST /api/v1/newgame.
type newGameReq struct {
	User string `json:"user"` // optional explicit Last.fm account
}
type newGameRes struct {
	ID      uuid.UUID `json:"id"`
	Lengths []int     `json:"lengths"`
}

// handleNewGame picks a fresh phrase and registers a session for it. Guests
// play against the configured default account; signed-in players get phrases
// from their own library unless the body names someone else.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req) // empty body means defaults

	user := strings.TrimSpace(req.User)
	if user == "" {
		if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
			user = me.Username
		}
	}

	id, lengths, err := s.ctrl.CreateSession(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("new game")
		writeDomainError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(newGameRes{ID: id, Lengths: lengths})
}

// guessReq/Res payloads for POST /api/v1/guess.
type guessReq struct {
	ID    uuid.UUID `json:"id"`
	Guess string    `json:"guess"`
}
type guessRes struct {
	Grades game.Outcome `json:"grades"`
}

// handleGuess grades one phrase guess against the session's secret.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := s.ctrl.SubmitGuess(req.ID, req.Guess)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(guessRes{Grades: outcome})
}

// handleTopAlbums proxies user.getTopAlbums so the web client never needs API
// credentials of its own. period and limit pass through when present.
func (s *Server) handleTopAlbums(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, "missing parameter user")
		return
	}

	req := s.lfm.TopAlbums(user)
	if p := r.URL.Query().Get("period"); p != "" {
		req = req.Period(lastfm.Period(p))
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		req = req.Limit(n)
	}

	top, err := req.Do(r.Context())
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("top albums")
		writeError(w, http.StatusInternalServerError, "something went wrong while contacting LastFM: "+err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(top)
}

// writeDomainError maps controller failures onto the API's status
// conventions: unknown session 404, player mistakes 400, upstream trouble 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		lengthErr  *game.LengthMismatchError
		countErr   *game.WordCountMismatchError
		unknownErr *game.UnknownWordError
	)
	switch {
	case errors.Is(err, store.ErrNoSession):
		writeError(w, http.StatusNotFound, "no such session")
	case errors.Is(err, phrase.ErrNoCandidates):
		writeError(w, http.StatusBadRequest, "user has no albums")
	case errors.As(err, &lengthErr), errors.As(err, &countErr), errors.As(err, &unknownErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, play.ErrUpstreamUnavailable):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
