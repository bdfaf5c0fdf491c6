// internal/lastfm/client.go
//
// Minimal Last.fm 2.0 API client.
//
// Responsibilities:
//   - Signed GET requests against the 2.0 endpoint (api_sig is the MD5 of
//     all parameters in key order plus the shared secret).
//   - Envelope handling: <lfm status="ok"> payloads decode into typed
//     structs, <lfm status="failed"> comes back as *APIError.
//   - auth.getSession, user.getInfo, and the user.getTopAlbums/Artists/Tracks
//     family with period/page/limit options.

package lastfm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// authURL is the web page where a user grants an API key access.
const authURL = "https://www.last.fm/api/auth/"

// Client talks to the Last.fm web API.
type Client struct {
	apiKey       string
	sharedSecret string
	baseURL      string
	httpClient   *http.Client
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New builds a Client for the production endpoint.
func New(apiKey, sharedSecret string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		sharedSecret: sharedSecret,
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthURL is the grant page to send a browser to. Last.fm redirects back to
// callback with ?token= once the user approves.
func (c *Client) AuthURL(callback string) string {
	q := url.Values{"api_key": {c.apiKey}}
	if callback != "" {
		q.Set("cb", callback)
	}
	return authURL + "?" + q.Encode()
}

// envelope is the outer <lfm> element common to every response.
type envelope struct {
	XMLName xml.Name `xml:"lfm"`
	Status  string   `xml:"status,attr"`
	Body    []byte   `xml:",innerxml"`
}

// sign computes api_sig: the hex MD5 of every key and value concatenated in
// key order, with the shared secret appended. api_sig itself is never part
// of the digest.
func (c *Client) sign(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := md5.New()
	for _, k := range keys {
		io.WriteString(h, k)
		io.WriteString(h, q.Get(k))
	}
	io.WriteString(h, c.sharedSecret)
	return hex.EncodeToString(h.Sum(nil))
}

// call performs one signed request for method and decodes the envelope
// payload into out.
func (c *Client) call(ctx context.Context, method string, args url.Values, out any) error {
	q := url.Values{}
	for k, vs := range args {
		q[k] = vs
	}
	q.Set("method", method)
	q.Set("api_key", c.apiKey)
	q.Set("api_sig", c.sign(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("lastfm: %s: build request: %w", method, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("lastfm: %s: %w", method, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("lastfm: %s: read response: %w", method, err)
	}

	var env envelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("lastfm: %s: decode envelope: %w", method, err)
	}
	switch env.Status {
	case "ok":
		if err := xml.Unmarshal(env.Body, out); err != nil {
			return fmt.Errorf("lastfm: %s: decode payload: %w", method, err)
		}
		return nil
	case "failed":
		apiErr := &APIError{}
		if err := xml.Unmarshal(env.Body, apiErr); err != nil {
			return fmt.Errorf("lastfm: %s: decode error payload: %w", method, err)
		}
		return apiErr
	default:
		return fmt.Errorf("lastfm: %s: unexpected envelope status %q", method, env.Status)
	}
}

// Authenticate exchanges a web-auth token for a session key.
func (c *Client) Authenticate(ctx context.Context, token string) (*Session, error) {
	var s Session
	if err := c.call(ctx, "auth.getSession", url.Values{"token": {token}}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UserInfo fetches the profile of the user a session key belongs to. The API
// resolves the user from the signed sk parameter.
func (c *Client) UserInfo(ctx context.Context, sessionKey string) (*User, error) {
	var u User
	if err := c.call(ctx, "user.getInfo", url.Values{"sk": {sessionKey}}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// userArgs assembles the shared parameter set of the user.getTop* family.
func userArgs(user string, period Period, page, limit int) url.Values {
	args := url.Values{"user": {user}}
	if period != "" {
		args.Set("period", string(period))
	}
	if page > 0 {
		args.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		args.Set("limit", strconv.Itoa(limit))
	}
	return args
}

// ---- user.getTopAlbums ----

// TopAlbumsRequest is a pending user.getTopAlbums call.
type TopAlbumsRequest struct {
	c      *Client
	user   string
	period Period
	page   int
	limit  int
}

// TopAlbums starts a top-albums request for user.
func (c *Client) TopAlbums(user string) *TopAlbumsRequest {
	return &TopAlbumsRequest{c: c, user: user}
}

// Period restricts the request to a time range. Default is overall.
func (r *TopAlbumsRequest) Period(p Period) *TopAlbumsRequest { r.period = p; return r }

// Page selects the result page. Default is the first page.
func (r *TopAlbumsRequest) Page(n int) *TopAlbumsRequest { r.page = n; return r }

// Limit caps results per page. API default is 50.
func (r *TopAlbumsRequest) Limit(n int) *TopAlbumsRequest { r.limit = n; return r }

// Do sends the request.
func (r *TopAlbumsRequest) Do(ctx context.Context) (*TopAlbums, error) {
	var out TopAlbums
	if err := r.c.call(ctx, "user.getTopAlbums", userArgs(r.user, r.period, r.page, r.limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- user.getTopArtists ----

// TopArtistsRequest is a pending user.getTopArtists call.
type TopArtistsRequest struct {
	c      *Client
	user   string
	period Period
	page   int
	limit  int
}

// TopArtists starts a top-artists request for user.
func (c *Client) TopArtists(user string) *TopArtistsRequest {
	return &TopArtistsRequest{c: c, user: user}
}

// Period restricts the request to a time range. Default is overall.
func (r *TopArtistsRequest) Period(p Period) *TopArtistsRequest { r.period = p; return r }

// Page selects the result page. Default is the first page.
func (r *TopArtistsRequest) Page(n int) *TopArtistsRequest { r.page = n; return r }

// Limit caps results per page. API default is 50.
func (r *TopArtistsRequest) Limit(n int) *TopArtistsRequest { r.limit = n; return r }

// Do sends the request.
func (r *TopArtistsRequest) Do(ctx context.Context) (*TopArtists, error) {
	var out TopArtists
	if err := r.c.call(ctx, "user.getTopArtists", userArgs(r.user, r.period, r.page, r.limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- user.getTopTracks ----

// TopTracksRequest is a pending user.getTopTracks call.
type TopTracksRequest struct {
	c      *Client
	user   string
	period Period
	page   int
	limit  int
}

// TopTracks starts a top-tracks request for user.
func (c *Client) TopTracks(user string) *TopTracksRequest {
	return &TopTracksRequest{c: c, user: user}
}

// Period restricts the request to a time range. Default is overall.
func (r *TopTracksRequest) Period(p Period) *TopTracksRequest { r.period = p; return r }

// Page selects the result page. Default is the first page.
func (r *TopTracksRequest) Page(n int) *TopTracksRequest { r.page = n; return r }

// Limit caps results per page. API default is 50.
func (r *TopTracksRequest) Limit(n int) *TopTracksRequest { r.limit = n; return r }

// Do sends the request.
func (r *TopTracksRequest) Do(ctx context.Context) (*TopTracks, error) {
	var out TopTracks
	if err := r.c.call(ctx, "user.getTopTracks", userArgs(r.user, r.period, r.page, r.limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
