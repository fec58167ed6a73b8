package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket int

const (
	bucketGeneral bucket = iota
	bucketAuth
)

// credentialPaths accept passwords or identity tokens and get the stricter
// auth bucket. Refresh stays on the general bucket.
var credentialPaths = map[string]struct{}{
	"/auth/login":    {},
	"/auth/register": {},
	"/auth/google":   {},
}

const (
	limiterSweepSize = 1000
	limiterIdleAfter = 10 * time.Minute
)

type limiterKey struct {
	bucket bucket
	client string
}

type trackedLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware keeps one token bucket per client address and route class.
type RateLimitMiddleware struct {
	generalRPM int
	authRPM    int

	mu       sync.Mutex
	limiters map[limiterKey]*trackedLimiter
}

func NewRateLimitMiddleware(generalRPM int, authRPM int) *RateLimitMiddleware {
	if generalRPM <= 0 {
		generalRPM = 100
	}
	if authRPM <= 0 {
		authRPM = 10
	}

	return &RateLimitMiddleware{
		generalRPM: generalRPM,
		authRPM:    authRPM,
		limiters:   map[limiterKey]*trackedLimiter{},
	}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		b := classify(r.URL.Path)
		if !m.limiter(limiterKey{bucket: b, client: extractClientIP(r)}).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(m.retryAfterSeconds(b)))
			writeDetail(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func classify(path string) bucket {
	if _, ok := credentialPaths[strings.TrimSuffix(strings.ToLower(path), "/")]; ok {
		return bucketAuth
	}
	return bucketGeneral
}

func (m *RateLimitMiddleware) rpm(b bucket) int {
	if b == bucketAuth {
		return m.authRPM
	}
	return m.generalRPM
}

// retryAfterSeconds is the time one token takes to refill, rounded up.
func (m *RateLimitMiddleware) retryAfterSeconds(b bucket) int {
	rpm := m.rpm(b)
	return (60 + rpm - 1) / rpm
}

func (m *RateLimitMiddleware) limiter(key limiterKey) *trackedLimiter {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.limiters[key]
	if !ok {
		rpm := m.rpm(key.bucket)
		l = &trackedLimiter{Limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)}
		m.limiters[key] = l
	}
	l.lastSeen = now

	if len(m.limiters) >= limiterSweepSize {
		cutoff := now.Add(-limiterIdleAfter)
		for k, tracked := range m.limiters {
			if tracked.lastSeen.Before(cutoff) {
				delete(m.limiters, k)
			}
		}
	}

	return l
}

func extractClientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr == "" {
		return "unknown"
	}
	return addr
}
