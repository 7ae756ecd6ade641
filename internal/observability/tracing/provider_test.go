package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_InstallsProvider(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	recorder := tracetest.NewSpanRecorder()
	shutdown := Setup(recorder)

	_, span := StartSpan(context.Background(), "publish.commit")
	assert.True(t, span.SpanContext().TraceID().IsValid())
	EndSpan(span, nil)

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "publish.commit", recorder.Ended()[0].Name())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	assert.NoError(t, shutdown(context.Background()))
}
