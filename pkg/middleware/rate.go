// Package middleware holds the HTTP middleware chain used by the kernel.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/farmermarket/backend/pkg/response"
)

const (
	// idleAfter is how long an unused per-IP limiter is kept.
	idleAfter = 10 * time.Minute
	// sweepEvery bounds how often Allow walks the visitor map.
	sweepEvery = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter hands out one token bucket per client IP.
type IPLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	every     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewIPLimiter allows max requests per window for each IP, with bursts up to max.
func NewIPLimiter(max int, window time.Duration) *IPLimiter {
	if max <= 0 {
		max = 1
	}
	return &IPLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(window / time.Duration(max)),
		burst:    max,
		now:      time.Now,
	}
}

// Allow reports whether ip may make a request now.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	if now.Sub(l.lastSweep) >= sweepEvery {
		l.evict(now)
		l.lastSweep = now
	}

	return v.limiter.AllowN(now, 1)
}

// evict drops visitors idle for longer than idleAfter. Caller holds mu.
func (l *IPLimiter) evict(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleAfter {
			delete(l.visitors, ip)
		}
	}
}

// Len is the number of tracked client IPs.
func (l *IPLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit rejects requests beyond max per window per client IP with 429.
// The client IP is the connection's remote address.
//
//	r.Use(middleware.RateLimit(200, time.Minute))
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	return RateLimitWith(NewIPLimiter(max, window), false)
}

// RateLimitWith limits through l. trustProxy keys clients by the first
// X-Forwarded-For hop; enable it only behind a proxy that overwrites the
// header, otherwise clients can pick their own bucket.
func RateLimitWith(l *IPLimiter, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r, trustProxy)) {
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is RemoteAddr without port, or the first X-Forwarded-For hop when
// trustProxy is set and the header is present.
func clientIP(r *http.Request, trustProxy bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
