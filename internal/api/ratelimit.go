package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// limiterSweepInterval bounds how often idle buckets are swept.
	limiterSweepInterval = 5 * time.Minute

	// limiterIdleEviction is how long an IP must stay silent before its
	// bucket is dropped.
	limiterIdleEviction = 10 * time.Minute
)

// ipLimiter applies a token bucket per client IP. Every generation
// request costs a paid upstream model call, so the buckets are small
// and refill slowly. Sweeping of idle buckets happens inline during
// allow calls; there is no background goroutine to manage.
type ipLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newIPLimiter creates a limiter refilling rps tokens per second with
// the given burst as the initial allowance per IP.
func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		buckets:   make(map[string]*bucket),
		limit:     rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// allow reports whether a request from ip may proceed.
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	if now.Sub(l.lastSweep) > limiterSweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > limiterIdleEviction {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		limiter := rate.NewLimiter(l.limit, l.burst)
		l.buckets[ip] = &bucket{limiter: limiter, lastSeen: now}
		limiter.Allow()
		return true
	}

	b.lastSeen = now
	return b.limiter.Allow()
}

// rateLimitMiddleware rejects requests from IPs that exhausted their
// bucket with 429 and a Retry-After hint.
func rateLimitMiddleware(l *ipLimiter, trustProxy bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			if !l.allow(ip) {
				logger.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Retry-After", "1")
				WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP from the request.
//
// When trustProxy is true, X-Real-IP is consulted first, then the
// first hop of X-Forwarded-For. Header values are validated with
// net.ParseIP so arbitrary strings cannot become limiter keys.
// Otherwise only RemoteAddr is used.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
				return ip.String()
			}
		}

		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			raw := xff
			if first, _, ok := strings.Cut(xff, ","); ok {
				raw = first
			}
			if ip := net.ParseIP(strings.TrimSpace(raw)); ip != nil {
				return ip.String()
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
