// internal/httpserver/routes_auth_test.go

package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionXML = `<lfm status="ok">
  <session>
    <name>lastfmplayer</name>
    <key>d580d57f32848f5dcf574d1ce18d78b2</key>
    <subscriber>0</subscriber>
  </session>
</lfm>`

const userInfoXML = `<lfm status="ok">
  <user>
    <name>lastfmplayer</name>
    <realname>Player One</realname>
    <url>https://www.last.fm/user/lastfmplayer</url>
    <country>UK</country>
    <playcount>1000</playcount>
    <subscriber>0</subscriber>
  </user>
</lfm>`

const revokedKeyXML = `<lfm status="failed">
  <error code="9">Invalid session key - Please re-authenticate</error>
</lfm>`

// lfmByMethod dispatches canned responses per API method and records every
// query it sees.
func lfmByMethod(t *testing.T, calls *[]url.Values, userInfoBody string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if calls != nil {
			*calls = append(*calls, q)
		}
		switch q.Get("method") {
		case "auth.getSession":
			_, _ = w.Write([]byte(sessionXML))
		case "user.getInfo":
			_, _ = w.Write([]byte(userInfoBody))
		default:
			t.Errorf("unexpected lastfm method %q", q.Get("method"))
		}
	}
}

func doWithCookie(t *testing.T, s *Server, method, target, body string, c *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.AddCookie(c)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func authCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "trackle_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no auth cookie in response")
	return nil
}

func TestAuthenticateRedirect(t *testing.T) {
	s := testServer(t, fixedSource("OK Computer"), nil)

	rec := do(t, s, http.MethodGet, "/authenticate", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	loc := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://www.last.fm/api/auth/?"), "Location = %q", loc)
	assert.Contains(t, loc, "api_key=test-api-key")
	assert.Contains(t, loc, "cb="+url.QueryEscape("http://localhost:3000/signin"))
}

func TestSigninMissingToken(t *testing.T) {
	s := testServer(t, fixedSource("OK Computer"), nil)

	rec := do(t, s, http.MethodGet, "/signin", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	decodeJSON(t, rec, &body)
	assert.Equal(t, "missing parameter token", body.Message)
}

func TestSigninSetsCookieAndStoresUser(t *testing.T) {
	var calls []url.Values
	s := testServer(t, fixedSource("OK Computer"), lfmByMethod(t, &calls, userInfoXML))

	rec := do(t, s, http.MethodGet, "/signin?token=tok123", "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var body struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Subscriber int    `json:"subscriber"`
	}
	decodeJSON(t, rec, &body)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, "lastfmplayer", body.Name)

	c := authCookie(t, rec)
	assert.True(t, c.HttpOnly)

	require.Len(t, calls, 1)
	assert.Equal(t, "auth.getSession", calls[0].Get("method"))
	assert.Equal(t, "tok123", calls[0].Get("token"))
}

func TestMeRequiresAuth(t *testing.T) {
	s := testServer(t, fixedSource("OK Computer"), nil)

	rec := do(t, s, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	var calls []url.Values
	s := testServer(t, fixedSource("OK Computer"), lfmByMethod(t, &calls, userInfoXML))

	signin := do(t, s, http.MethodGet, "/signin?token=tok123", "")
	require.Equal(t, http.StatusOK, signin.Code)
	c := authCookie(t, signin)

	rec := doWithCookie(t, s, http.MethodGet, "/auth/me", "", c)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var body struct {
		Name    string `json:"name"`
		AuthAt  string `json:"authAt"`
		Profile struct {
			RealName  string `json:"realName"`
			Playcount int64  `json:"playcount"`
		} `json:"profile"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, "lastfmplayer", body.Name)
	assert.NotEmpty(t, body.AuthAt)
	assert.Equal(t, "Player One", body.Profile.RealName)
	assert.Equal(t, int64(1000), body.Profile.Playcount)

	// The profile call must run under the session key from sign-in, unsealed
	// from storage.
	require.Len(t, calls, 2)
	assert.Equal(t, "user.getInfo", calls[1].Get("method"))
	assert.Equal(t, "d580d57f32848f5dcf574d1ce18d78b2", calls[1].Get("sk"))
}

func TestMeRevokedSessionKey(t *testing.T) {
	s := testServer(t, fixedSource("OK Computer"), lfmByMethod(t, nil, revokedKeyXML))

	signin := do(t, s, http.MethodGet, "/signin?token=tok123", "")
	require.Equal(t, http.StatusOK, signin.Code)
	c := authCookie(t, signin)

	rec := doWithCookie(t, s, http.MethodGet, "/auth/me", "", c)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body errorResponse
	decodeJSON(t, rec, &body)
	assert.Contains(t, body.Message, "sign in again")

	// The useless cookie gets cleared.
	for _, got := range rec.Result().Cookies() {
		if got.Name == "trackle_token" {
			assert.Empty(t, got.Value)
			assert.LessOrEqual(t, got.MaxAge, 0)
		}
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	s := testServer(t, fixedSource("OK Computer"), nil)

	rec := do(t, s, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "trackle_token" && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected an expired trackle_token cookie")
}

func TestNewGameUsesSignedInUser(t *testing.T) {
	var asked []string
	src := sourceFunc(func(ctx context.Context, user string) ([]string, error) {
		asked = append(asked, user)
		return []string{"OK Computer"}, nil
	})
	s := testServer(t, src, lfmByMethod(t, nil, userInfoXML))

	signin := do(t, s, http.MethodGet, "/signin?token=tok123", "")
	require.Equal(t, http.StatusOK, signin.Code)
	c := authCookie(t, signin)

	rec := doWithCookie(t, s, http.MethodPost, "/api/v1/newgame", "", c)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	require.Len(t, asked, 1)
	assert.Equal(t, "lastfmplayer", asked[0])
}
