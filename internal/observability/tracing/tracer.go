package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans created by this application.
const tracerName = "contentflow"

// GetTracer returns the tracer for creating spans. It is resolved from the
// global provider on every call so a provider installed after package
// initialisation (for example in tests) takes effect.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "content.generate")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
