package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/jx"
)

// RateLimitConfig configures the per-client sliding window rate limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per window.
	Max int
	// Window is the sliding window duration.
	Window time.Duration
	// KeyFunc extracts the limit key from a request. Defaults to client IP.
	KeyFunc func(*http.Request) string
}

// bucket holds counts for the current window and the one before it.
type bucket struct {
	start time.Time
	count int
	prev  int
}

type limiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	return &limiter{cfg: cfg, buckets: make(map[string]*bucket)}
}

// allow reports whether the request identified by key fits the limit. The
// previous window's count is weighted by its overlap with the sliding window,
// so a burst at a window boundary cannot double the effective limit.
func (l *limiter) allow(key string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := now.Truncate(l.cfg.Window)
	b, found := l.buckets[key]
	if !found {
		b = &bucket{start: windowStart}
		l.buckets[key] = b
	}
	if !b.start.Equal(windowStart) {
		if b.start.Add(l.cfg.Window).Equal(windowStart) {
			b.prev = b.count
		} else {
			b.prev = 0
		}
		b.count = 0
		b.start = windowStart
	}

	frac := 1 - now.Sub(windowStart).Seconds()/l.cfg.Window.Seconds()
	used := float64(b.prev)*frac + float64(b.count)
	resetAt = windowStart.Add(l.cfg.Window)

	if used >= float64(l.cfg.Max) {
		return 0, resetAt, false
	}
	b.count++

	remaining = l.cfg.Max - int(math.Ceil(used)) - 1
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetAt, true
}

// evict drops buckets that have been idle for two full windows.
func (l *limiter) evict(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.start) >= 2*l.cfg.Window {
			delete(l.buckets, key)
		}
	}
}

// RateLimit enforces a per-key sliding window rate limit. Exceeding it yields
// 429 with a JSON body; every response carries X-RateLimit-Limit,
// X-RateLimit-Remaining, and X-RateLimit-Reset headers.
//
// This variant never evicts idle keys. Use RateLimitWithCleanup for
// long-running servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return limitMiddleware(newLimiter(cfg))
}

// RateLimitWithCleanup is RateLimit plus a background goroutine that evicts
// idle keys every two windows until ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiter(cfg)
	go func() {
		ticker := time.NewTicker(2 * l.cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.evict(now)
			}
		}
	}()
	return limitMiddleware(l)
}

func limitMiddleware(l *limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.allow(l.cfg.KeyFunc(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retryAfter := int(math.Ceil(time.Until(resetAt).Seconds()))
				if retryAfter < 0 {
					retryAfter = 0
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				var e jx.Encoder
				e.ObjStart()
				e.FieldStart("code")
				e.Int(http.StatusTooManyRequests)
				e.FieldStart("message")
				e.Str("rate limit exceeded")
				e.ObjEnd()
				_, _ = w.Write(e.Bytes())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the limit key from X-Forwarded-For, X-Real-IP, or
// RemoteAddr, in that order.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
