package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts an internal span with the given attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span (when non-nil) and ends it.
//
//	ctx, span := tracing.StartSpan(ctx, "publish.commit")
//	defer func() { tracing.EndSpan(span, err) }()
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
