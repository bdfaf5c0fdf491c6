// internal/httpserver/routes_auth.go
//
// Last.fm web-auth flow and cookie-based sessions.
//
// Sign-in dance:
//  1. GET /authenticate sends the browser to the Last.fm grant page.
//  2. Last.fm redirects back to AUTH_CALLBACK_URL (our /signin) with ?token=.
//  3. /signin exchanges the token for a session key, upserts the user row
//     (key sealed at rest), and sets an HS256 JWT cookie.
//
// The cookie carries {id, username}; optional-auth routes use it to pick the
// player's own library, /auth/me requires it.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/hydehsmf/trackle/internal/lastfm"
)

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// handleAuthenticate redirects the browser to the Last.fm grant page. Once
// the user approves, Last.fm calls back into /signin with a token.
func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	cb := getEnv("AUTH_CALLBACK_URL", "http://localhost:3000/signin")
	http.Redirect(w, r, s.lfm.AuthURL(cb), http.StatusSeeOther)
}

// handleSignin completes the dance: token -> session key -> user row -> JWT.
func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing parameter token")
		return
	}

	sess, err := s.lfm.Authenticate(r.Context(), token)
	if err != nil {
		log.Error().Err(err).Msg("signin: token exchange")
		writeError(w, http.StatusInternalServerError, "something went wrong while contacting LastFM: "+err.Error())
		return
	}

	u, err := s.users.Upsert(r.Context(), sess.Name, sess.Key, sess.Subscriber)
	if err != nil {
		log.Error().Err(err).Str("user", sess.Name).Msg("signin: store user")
		writeError(w, http.StatusInternalServerError, "could not store user")
		return
	}

	tok, exp, err := s.signJWT(u.ID, u.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not sign token")
		return
	}
	s.setAuthCookie(w, tok, exp)
	log.Info().Str("user", u.Name).Msg("signed in")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"subscriber": u.Subscriber,
	})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// handleMe returns the signed-in account plus a fresh profile from Last.fm.
// The profile call doubles as a liveness probe for the stored session key;
// when Last.fm reports the key revoked the cookie is cleared so the client
// can restart the sign-in flow.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := s.users.GetByID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unknown account")
		return
	}

	info, err := s.lfm.UserInfo(r.Context(), u.SessionKey)
	if err != nil {
		var apiErr *lastfm.APIError
		if errors.As(err, &apiErr) && apiErr.Code == "9" {
			s.clearAuthCookie(w)
			writeError(w, http.StatusUnauthorized, "session key revoked, sign in again")
			return
		}
		log.Error().Err(err).Str("user", u.Name).Msg("me: profile fetch")
		writeError(w, http.StatusInternalServerError, "something went wrong while contacting LastFM: "+err.Error())
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"subscriber": u.Subscriber,
		"authAt":     u.AuthAt.UTC().Format(time.RFC3339),
		"profile":    info,
	})
}

// --------------------------- auth middleware --------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is
// present. It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := bearerOrCookie(r); tok != "" {
				claims := jwt.MapClaims{}
				if t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
					return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
				}); err == nil && t.Valid {
					id, _ := claims["id"].(string)
					username, _ := claims["username"].(string)
					if id != "" && username != "" {
						ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Username: username})
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
			})
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			id, _ := claims["id"].(string)
			username, _ := claims["username"].(string)
			if id == "" || username == "" {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Username: username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(getEnv("COOKIE_NAME", "trackle_token")); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------ JWT & cookies -------------------------------

// signJWT creates an HS256 JWT with id/username and a configurable expiry
// (JWT_EXPIRES_DAYS; default 14).
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	secret := getEnv("JWT_SECRET", "dev_secret_change_me")
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	exp := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// setAuthCookie writes the auth token cookie with appropriate security
// attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	name := getEnv("COOKIE_NAME", "trackle_token")
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // third-party contexts need None+Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	name := getEnv("COOKIE_NAME", "trackle_token")
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}
