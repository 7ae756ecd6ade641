package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup installs an SDK tracer provider and the W3C propagators as the
// process globals and returns the provider's shutdown function.
//
// No exporter is attached: spans get real trace ids, which the request log
// and the X-Trace-Id header carry, and extra span processors can be passed
// in to ship them elsewhere.
func Setup(processors ...sdktrace.SpanProcessor) func(context.Context) error {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample()))}
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown
}
