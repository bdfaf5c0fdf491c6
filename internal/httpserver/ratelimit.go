// internal/httpserver/ratelimit.go
//
// Per-client token-bucket rate limiting. Buckets are keyed by remote IP;
// RealIP runs earlier in the chain so a reverse proxy does not collapse all
// clients onto one bucket.

package httpserver

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

// rateLimiters hands out one limiter per client key.
type rateLimiters struct {
	mu    sync.Mutex
	perIP map[string]*rate.Limiter
	rps   rate.Limit
	burst int
}

func newRateLimiters() *rateLimiters {
	rps := envInt("RATE_LIMIT_RPS", 10)
	burst := envInt("RATE_LIMIT_BURST", 20)
	return &rateLimiters{
		perIP: make(map[string]*rate.Limiter),
		rps:   rate.Limit(rps),
		burst: burst,
	}
}

// get returns the limiter for key, creating it on first sight.
func (rl *rateLimiters) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if lim, ok := rl.perIP[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.perIP[key] = lim
	return lim
}

// rateLimitByIP rejects clients that exceed the per-IP budget with a 429.
func rateLimitByIP() func(http.Handler) http.Handler {
	rl := newRateLimiters()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// RealIP rewrites RemoteAddr to a bare IP.
				host = r.RemoteAddr
			}
			if !rl.get(host).Allow() {
				writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// envInt reads a positive integer from the environment or returns def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
