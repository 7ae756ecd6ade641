package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the request's trace id back to the client.
const TraceIDHeader = "X-Trace-Id"

// statusRecorder wraps http.ResponseWriter to capture status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware starts a server span per request, continuing any W3C trace
// context found in the request headers.
//
// The span is named after the matched route pattern when the request was
// routed by http.ServeMux, otherwise after method and path. 5xx responses
// mark the span as failed.
//
//	handler := tracing.Middleware(mux)
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		ctx, span := GetTracer().Start(ctx, r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		w.Header().Set(TraceIDHeader, span.SpanContext().TraceID().String())

		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		r = r.WithContext(ctx)
		next.ServeHTTP(rw, r)

		if r.Pattern != "" {
			span.SetName(r.Pattern)
		}
		span.SetAttributes(
			attribute.Int("http.status_code", rw.statusCode),
			attribute.String("http.method", r.Method),
			attribute.String("http.path", r.URL.Path),
		)
		if rw.statusCode >= 500 {
			span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
		}
	})
}
