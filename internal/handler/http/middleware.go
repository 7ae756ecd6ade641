package http

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"contentflow/internal/handler/http/respond"
	"contentflow/internal/handler/http/responsewriter"
	"contentflow/internal/observability/logging"
)

// Logging returns middleware that logs every completed request.
// Query strings are redacted because webhook keys travel in them.
// request_id is added by the logger's context handler.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := responsewriter.Wrap(w)
			ctx := logging.WithLogger(r.Context(), logger)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			traceID := trace.SpanFromContext(r.Context()).SpanContext().TraceID().String()
			duration := time.Since(start)

			level := slog.LevelInfo
			if wrapped.StatusCode() >= 500 {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "request completed",
				slog.String("trace_id", traceID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("url", logging.RedactURL(r.URL.RequestURI())),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("status", wrapped.StatusCode()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", duration),
				slog.String("duration_ms", fmt.Sprintf("%.2f", duration.Seconds()*1000)),
			)
		})
	}
}

// Recover returns middleware that turns a panic into a 500 response.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
					)
					respond.Failure(w, r, respond.NewAppError(
						http.StatusInternalServerError, "internal server error", nil))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LimitRequestBody returns middleware that limits the size of request bodies.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP with a token bucket.
// Generation endpoints are expensive (four model calls each), so the API
// puts them behind this limiter.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastClean time.Time
	now       func() time.Time
}

// NewRateLimiter allows perMinute requests per client with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients:   make(map[string]*clientLimiter),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		idleTTL:   10 * time.Minute,
		lastClean: time.Now(),
		now:       time.Now,
	}
}

// Limit rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reservation := rl.reserve(extractIP(r))
		if delay := reservation.DelayFrom(rl.now()); delay > 0 {
			reservation.CancelAt(rl.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			respond.Failure(w, r, respond.NewAppError(
				http.StatusTooManyRequests, "rate limit exceeded", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) reserve(ip string) *rate.Reservation {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// 古いクライアントを定期的に削除
	if now.Sub(rl.lastClean) >= rl.idleTTL {
		for key, c := range rl.clients {
			if now.Sub(c.lastSeen) >= rl.idleTTL {
				delete(rl.clients, key)
			}
		}
		rl.lastClean = now
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.ReserveN(now, 1)
}

// Clients returns the number of tracked client addresses.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// extractIP returns the client address. X-Forwarded-For and X-Real-IP are
// honoured first since the API normally runs behind the relay or a load balancer.
func extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP parses the first IP address from a comma-separated list.
func parseFirstIP(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			if ip := net.ParseIP(strings.TrimSpace(s[:i])); ip != nil {
				return ip.String()
			}
			return ""
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}
