// internal/httpserver/server.go
//
// HTTP server wiring for the trackle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     per-IP rate limiting, optional Sentry).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: POST /api/v1/newgame (optional auth), POST /api/v1/guess,
//     GET /api/v1/top-albums.
//   - Last.fm web-auth flow and account endpoints: /authenticate, /signin,
//     /auth/me, /auth/logout.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is
//     present; guests can always play.
//   - Error bodies are {"message":"..."} so the web client can show them as-is.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hydehsmf/trackle/internal/lastfm"
	"github.com/hydehsmf/trackle/internal/play"
	"github.com/hydehsmf/trackle/internal/userdb"
	"github.com/hydehsmf/trackle/internal/words"
)

// Server bundles the router with the game controller, word list, user
// registry, and Last.fm client.
type Server struct {
	r     *chi.Mux
	ctrl  *play.Controller
	words *words.List
	users *userdb.Store
	lfm   *lastfm.Client
}

// New constructs a Server, installs middleware, and registers routes.
func New(ctrl *play.Controller, dict *words.List, users *userdb.Store, lfm *lastfm.Client) *Server {
	s := &Server{r: chi.NewRouter(), ctrl: ctrl, words: dict, users: users, lfm: lfm}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS
	s.r.Use(rateLimitByIP())                 // per-client token bucket
	if os.Getenv("SENTRY_DSN") != "" {
		s.r.Use(sentryhttp.New(sentryhttp.Options{Timeout: 2 * time.Second}).Handle)
	}

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"trackle","endpoints":["/health","POST /api/v1/newgame","POST /api/v1/guess","GET /api/v1/top-albums","/authenticate","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game endpoints; guests play against the configured default account
	s.r.With(s.withOptionalAuth()).Post("/api/v1/newgame", s.handleNewGame)
	s.r.Post("/api/v1/guess", s.handleGuess)
	s.r.Get("/api/v1/top-albums", s.handleTopAlbums)

	// Last.fm web auth + account
	s.r.Get("/authenticate", s.handleAuthenticate)
	s.r.Get("/signin", s.handleSignin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", s.handleMe)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})

	// Debug: word list and session counters
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"words":          s.words.Count(),
			"lengths":        s.words.Lengths(),
			"activeSessions": s.ctrl.ActiveSessions(),
		})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests and graceful serving).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := getEnv("CLIENT_ORIGIN", "http://localhost:5173")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ responses ----------------------------------

type errorResponse struct {
	Message string `json:"message"`
}

// writeError emits the {"message":"..."} body the web client shows verbatim.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: msg})
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
