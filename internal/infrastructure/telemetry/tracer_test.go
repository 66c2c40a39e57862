package telemetry_test

import (
	"context"
	"testing"

	"github.com/setorcuan/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "setorcuan-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	_, span := tp.Tracer("test").Start(ctx, "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProviderWithProcessor_ExportsSpans(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	recorder := tracetest.NewSpanRecorder()
	tp, err := telemetry.NewTracerProviderWithProcessor(telemetry.Config{
		ServiceName:   "setorcuan-test",
		SamplingRatio: 1,
	}, recorder, nil)
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := otel.Tracer("exchange").Start(context.Background(), "validate deposit")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "validate deposit", spans[0].Name())

	var service string
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "setorcuan-test", service)
}

func TestSampler(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	params := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: traceID, Name: "span"}

	tests := []struct {
		name  string
		ratio float64
		want  sdktrace.SamplingDecision
	}{
		{"always", 1, sdktrace.RecordAndSample},
		{"above one", 2, sdktrace.RecordAndSample},
		{"never", 0, sdktrace.Drop},
		{"negative", -1, sdktrace.Drop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetry.Sampler(tt.ratio).ShouldSample(params).Decision)
		})
	}
}
