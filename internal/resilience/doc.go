// Package resilience groups the reliability patterns used by the outbound
// clients.
//
//   - retry: bounded retries with exponential backoff, honouring provider
//     suggested delays on rate limits, with an injectable sleeper
//   - circuitbreaker: gobreaker wrappers that stop calling a failing provider
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.LLMConfig("openai"))
//	err := retry.WithBackoff(ctx, retry.DefaultConfig(), func() error {
//	    return cb.Run(func() error { return callProvider(ctx) })
//	})
package resilience
