package middleware

import (
	"net/http"
	"sync"
	"time"
)

// HTTPSRedirect redirects plain HTTP requests to HTTPS when force is set.
// X-Forwarded-Proto is trusted so the check works behind a reverse proxy.
func HTTPSRedirect(force bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if force && r.Header.Get("X-Forwarded-Proto") != "https" && r.TLS == nil {
				http.Redirect(w, r, "https://"+r.Host+r.URL.RequestURI(), http.StatusMovedPermanently)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// pages use only embedded CSS and inline styles, no scripts
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; script-src 'none'")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

// RateLimiter is a fixed-window in-memory limiter keyed by client IP
type RateLimiter struct {
	requests map[string]*rateLimitEntry
	mu       sync.Mutex
	limit    int           // max requests per window
	window   time.Duration // time window
	proxies  *ProxyTrust
	now      func() time.Time
}

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// NewRateLimiter creates a limiter. Expired entries are pruned lazily on Allow.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string]*rateLimitEntry),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow checks if a request from the given key (usually IP) is allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.requests) > 1024 {
		for k, e := range rl.requests {
			if now.After(e.resetTime) {
				delete(rl.requests, k)
			}
		}
	}

	entry, exists := rl.requests[key]
	if !exists || now.After(entry.resetTime) {
		rl.requests[key] = &rateLimitEntry{count: 1, resetTime: now.Add(rl.window)}
		return true
	}

	if entry.count >= rl.limit {
		return false
	}
	entry.count++
	return true
}

// TrustProxies keys requests from the given proxies on the forwarded client address
func (rl *RateLimiter) TrustProxies(p *ProxyTrust) *RateLimiter {
	rl.proxies = p
	return rl
}

// AllowRequest applies Allow to the client IP of r
func (rl *RateLimiter) AllowRequest(r *http.Request) bool {
	if rl == nil || rl.limit <= 0 {
		return true
	}
	return rl.Allow(rl.proxies.ClientIP(r))
}
