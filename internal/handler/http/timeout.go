package http

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds the request context with duration.
//
// Handlers pass the context to the outbound clients, so an expired deadline
// surfaces as context.DeadlineExceeded and is answered with 504 by
// respond.Failure. Nothing writes the response from a second goroutine.
// A non-positive duration leaves the request unchanged.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if duration <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
