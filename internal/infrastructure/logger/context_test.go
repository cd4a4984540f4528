package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithJob(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, log := WithJob(context.Background(), zap.New(core), "generate-realizations:2025-03")
	log.Info("started")

	assert.Equal(t, "generate-realizations:2025-03", GetJob(ctx))
	assert.Empty(t, GetRequestID(ctx))
	assert.Same(t, log, FromContext(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "generate-realizations:2025-03", logs.All()[0].ContextMap()["job"])
}

func TestFromContext_Empty(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestWithLogger_EnrichesFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	service := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	traceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	spanID, _ := trace.SpanIDFromHex("b7ad6b7169203331")
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	WithLogger(ctx, service).Info("Payment allocated", zap.String("allocated", "120.00"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
	assert.Equal(t, "120.00", fields["allocated"])
}

func TestWithLogger_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		WithLogger(context.Background(), nil).Warn("dropped")
	})
}
