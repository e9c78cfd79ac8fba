package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// MaxBodySize caps request bodies. Moderation payloads are small JSON
// documents; anything near this limit is abuse.
const MaxBodySize = 1 << 20 // 1MB

// RateLimiter implements a sliding-window per-client rate limit.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	cleanup  time.Duration
}

type visitor struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per window.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		cleanup:  2 * window,
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether the client identified by key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	// Drop timestamps outside the window.
	cutoff := now.Add(-rl.window)
	kept := v.timestamps[:0]
	for _, ts := range v.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	v.timestamps = kept

	if len(v.timestamps) >= rl.rate {
		return false
	}
	v.timestamps = append(v.timestamps, now)
	return true
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.cleanup)
		for key, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitConfig holds the limiters for each endpoint class.
type RateLimitConfig struct {
	// ReportLimiter guards report submission, the only endpoint open
	// to all authenticated users and the most abuse-prone.
	ReportLimiter *RateLimiter
	// AdminLimiter guards the moderator endpoints.
	AdminLimiter *RateLimiter
	// GlobalLimiter covers everything else.
	GlobalLimiter *RateLimiter
}

// NewDefaultRateLimitConfig returns production limits.
func NewDefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		ReportLimiter: NewRateLimiter(10, time.Minute),
		AdminLimiter:  NewRateLimiter(120, time.Minute),
		GlobalLimiter: NewRateLimiter(300, time.Minute),
	}
}

// RateLimitMiddleware applies per-IP rate limits by endpoint class.
func RateLimitMiddleware(config *RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var limiter *RateLimiter
			switch {
			case r.Method == http.MethodPost && r.URL.Path == "/moderation/reports":
				limiter = config.ReportLimiter
			case strings.HasPrefix(r.URL.Path, "/moderation/"):
				limiter = config.AdminLimiter
			default:
				limiter = config.GlobalLimiter
			}

			if !limiter.Allow(GetClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets defensive response headers. The
// service only ever serves JSON, so the policy is deny-everything.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// LimitBodyMiddleware caps request body size.
func LimitBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}
