package telemetry_test

import (
	"context"
	"testing"

	"github.com/adspace/backoffice/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1,
		ServiceName:       "adspace-backoffice",
	}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("billing"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{ServiceName: "adspace-backoffice"}, nil)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("billing"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMeterProvider_NilIsDisabled(t *testing.T) {
	var mp *telemetry.MeterProvider
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("billing"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
