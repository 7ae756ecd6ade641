package webhook

import (
	"context"

	"golang.org/x/time/rate"
)

// rateLimiter is a token bucket shared by every call of one Client so that a
// burst of form submissions cannot flood the automation server.
type rateLimiter struct {
	limiter *rate.Limiter
}

func newRateLimiter(requestsPerSecond float64, burst int) *rateLimiter {
	return &rateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// wait blocks until a token is available or ctx is done.
func (r *rateLimiter) wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
