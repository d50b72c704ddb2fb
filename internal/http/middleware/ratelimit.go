package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter throttles clients per IP with a token bucket. Each client may
// burst up to perMinute requests and then refills at perMinute tokens per
// minute.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*tokenBucket
	perMinute float64
	now       func() time.Time
}

type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per minute
// per IP and starts its eviction reaper. The reaper lives for the process;
// limiters are constructed once at wiring time.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		clients:   make(map[string]*tokenBucket),
		perMinute: float64(perMinute),
		now:       time.Now,
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.Evict(time.Now().Add(-10 * time.Minute))
		}
	}()
	return rl
}

// Allow reports whether the client identified by ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	tb, ok := rl.clients[ip]
	if !ok {
		tb = &tokenBucket{tokens: rl.perMinute, lastRefill: now}
		rl.clients[ip] = tb
	}

	tb.tokens += now.Sub(tb.lastRefill).Minutes() * rl.perMinute
	if tb.tokens > rl.perMinute {
		tb.tokens = rl.perMinute
	}
	tb.lastRefill = now

	if tb.tokens < 1 {
		return false
	}
	tb.tokens--
	return true
}

// Evict drops client entries idle since before cutoff. Called periodically
// from the reaper goroutine.
func (rl *RateLimiter) Evict(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, tb := range rl.clients {
		if tb.lastRefill.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429 and a German error
// body matching the rest of the API.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RemoteAddr is the only key: chi's RealIP middleware has already
		// rewritten it from trusted proxy headers, and reading X-Real-Ip
		// here would let clients pick their own bucket.
		if !rl.Allow(r.RemoteAddr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Zu viele Anfragen. Bitte warte einen Moment."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
