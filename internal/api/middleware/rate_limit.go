package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"kompi/internal/pkg/errors"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client key. A non-positive
// perMinute disables limiting. Forwarding headers only identify the client
// when trustProxy is set.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*limiterEntry
	perMinute  int
	limit      rate.Limit
	trustProxy bool
}

func NewRateLimiter(perMinute int, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		limiters:   make(map[string]*limiterEntry),
		perMinute:  perMinute,
		limit:      rate.Limit(float64(perMinute) / 60),
		trustProxy: trustProxy,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.perMinute <= 0 {
		return true
	}

	rl.mu.Lock()
	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.perMinute)}
		rl.limiters[key] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// RetryAfter is the number of seconds until one more request is allowed.
func (rl *RateLimiter) RetryAfter() int {
	if rl.perMinute <= 0 {
		return 0
	}
	return int(math.Ceil(60 / float64(rl.perMinute)))
}

// Cleanup drops limiters idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-idle)
	removed := 0
	for key, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimit limits requests per client IP within scope.
func RateLimit(rl *RateLimiter, scope string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(scope + ":" + ClientIP(r, rl.trustProxy)) {
				RateLimited.WithLabelValues(scope).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter()))
				errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded, "Rate limit exceeded", nil)
				return
			}
			next(w, r)
		}
	}
}

// ClientIP returns the connection address. Behind a trusted proxy the first
// X-Forwarded-For hop, then X-Real-IP, take precedence.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
