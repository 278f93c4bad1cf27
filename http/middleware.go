package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDFromContext returns the request id stored by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// RequestID stores a request id in the context and echoes it in the response
// header. An id supplied by the client is reused.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Recovery catches panics and returns a JSON-RPC internal error.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						"error", fmt.Sprintf("%v", rec),
						"request_id", RequestIDFromContext(r.Context()),
					)
					writeInternalError(w, fmt.Sprintf("%v", rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs request method, path, status, and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.InfoContext(r.Context(), "request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// DefaultRateLimitIdle is how long a client may stay idle before its
// limiter is dropped.
const DefaultRateLimitIdle = 10 * time.Minute

// IPRateLimiter implements per-IP token bucket rate limiting.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time

	rps            rate.Limit
	burst          int
	idle           time.Duration
	trustForwarded bool
	now            func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption configures an IPRateLimiter.
type RateLimiterOption func(*IPRateLimiter)

// WithTrustForwardedFor keys clients by the first X-Forwarded-For address.
// Only enable this behind a proxy that sets the header.
func WithTrustForwardedFor() RateLimiterOption {
	return func(l *IPRateLimiter) {
		l.trustForwarded = true
	}
}

// WithIdleTimeout overrides DefaultRateLimitIdle.
func WithIdleTimeout(d time.Duration) RateLimiterOption {
	return func(l *IPRateLimiter) {
		l.idle = d
	}
}

// WithClock sets the time source used for idle tracking.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *IPRateLimiter) {
		l.now = now
	}
}

// NewIPRateLimiter creates a limiter allowing rps requests per second per
// client with the given burst.
func NewIPRateLimiter(rps float64, burst int, opts ...RateLimiterOption) *IPRateLimiter {
	l := &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idle:     DefaultRateLimitIdle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastSweep = l.now()
	return l
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) >= l.idle {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Middleware rejects requests over the client's limit with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(l.clientIP(r)).Allow() {
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse(nil, CodeRateLimited, "Rate limit exceeded", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) clientIP(r *http.Request) string {
	if l.trustForwarded {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
