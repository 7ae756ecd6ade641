// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application metrics:
//   - HTTP request metrics (count, duration)
//   - Business metrics (generations, workflow dispatches, publishes, imports)
//
// All metrics are registered with the Prometheus default registry and exposed
// via the /metrics endpoint of the API server.
//
// Example usage:
//
//	start := time.Now()
//	result, err := svc.ProcessContent(ctx, text, tone)
//	metrics.RecordContentGeneration(err == nil, time.Since(start))
package metrics
