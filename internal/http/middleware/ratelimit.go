package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter grants each key a fixed number of actions per window. Windows
// start at a key's first action, not on a shared clock.
type RateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	spent   int
	resetAt time.Time
}

func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if per <= 0 {
		per = time.Minute
	}
	return &RateLimiter{
		limit:   limit,
		period:  per,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow spends one action for key. When the budget is used up it reports how
// long until the key's window resets. A nil limiter allows everything.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	if rl == nil {
		return true, 0
	}
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		if len(rl.buckets) >= 1024 {
			rl.evictExpired(now)
		}
		b = &bucket{resetAt: now.Add(rl.period)}
		rl.buckets[key] = b
	}
	if b.spent >= rl.limit {
		return false, b.resetAt.Sub(now)
	}
	b.spent++
	return true, 0
}

func (rl *RateLimiter) evictExpired(now time.Time) {
	for k, b := range rl.buckets {
		if !now.Before(b.resetAt) {
			delete(rl.buckets, k)
		}
	}
}

// SessionKey keys limits by the logged-in user so forwarded-for headers
// cannot spread one user over many buckets.
func SessionKey(username string) string {
	return "user:" + strings.ToLower(strings.TrimSpace(username))
}

// ClientIP is the best guess at the caller's address. Proxy headers are
// trusted as-is, so the result is only fit for logging.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	for _, h := range []string{"X-Forwarded-For", "X-Real-IP"} {
		first, _, _ := strings.Cut(r.Header.Get(h), ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil {
		return host
	}
	return r.RemoteAddr
}
