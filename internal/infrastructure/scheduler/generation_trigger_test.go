package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   []billing.Period
	results []error
}

func (f *fakeGenerator) Generate(_ context.Context, period billing.Period, trigger appbilling.Trigger) (*appbilling.GenerateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, period)
	var err error
	if len(f.results) > 0 {
		err, f.results = f.results[0], f.results[1:]
	}
	if err != nil {
		return nil, err
	}
	return &appbilling.GenerateResult{Period: period.String()}, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() GenerationTriggerConfig {
	cfg := DefaultGenerationTriggerConfig()
	cfg.Day = 1
	cfg.Hour = 3
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func newTestTrigger(t *testing.T, gen Generator, now time.Time) *GenerationTrigger {
	t.Helper()
	trigger, err := NewGenerationTrigger(testConfig(), gen, nil)
	require.NoError(t, err)
	trigger.now = func() time.Time { return now }
	return trigger
}

func TestGenerationTriggerConfig_Validate(t *testing.T) {
	cfg := testConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Day = 31
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = testConfig()
	cfg.Hour = 24
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestGenerationTrigger_NotDueBeforeHour(t *testing.T) {
	gen := &fakeGenerator{}
	trigger := newTestTrigger(t, gen, time.Date(2025, 3, 1, 2, 59, 0, 0, time.Local))

	trigger.CheckAndTrigger(context.Background())
	assert.Zero(t, gen.callCount())
}

func TestGenerationTrigger_RunsOncePerMonth(t *testing.T) {
	gen := &fakeGenerator{}
	trigger := newTestTrigger(t, gen, time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local))

	trigger.CheckAndTrigger(context.Background())
	trigger.CheckAndTrigger(context.Background())

	require.Equal(t, 1, gen.callCount())
	assert.Equal(t, billing.Period{Year: 2025, Month: 3}, gen.calls[0])

	trigger.now = func() time.Time { return time.Date(2025, 4, 1, 3, 0, 0, 0, time.Local) }
	trigger.CheckAndTrigger(context.Background())
	require.Equal(t, 2, gen.callCount())
	assert.Equal(t, billing.Period{Year: 2025, Month: 4}, gen.calls[1])
}

func TestGenerationTrigger_RetriesPersistenceErrors(t *testing.T) {
	gen := &fakeGenerator{results: []error{
		shared.NewPersistenceError("transaction", errors.New("connection reset")),
		nil,
	}}
	trigger := newTestTrigger(t, gen, time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local))

	trigger.CheckAndTrigger(context.Background())
	assert.Equal(t, 2, gen.callCount())

	// succeeded on retry, so the month is done
	trigger.CheckAndTrigger(context.Background())
	assert.Equal(t, 2, gen.callCount())
}

func TestGenerationTrigger_DomainErrorNotRetried(t *testing.T) {
	gen := &fakeGenerator{results: []error{shared.NewConsistencyFault("NEGATIVE_DEBT", "broken")}}
	trigger := newTestTrigger(t, gen, time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local))

	trigger.CheckAndTrigger(context.Background())
	assert.Equal(t, 1, gen.callCount())

	// not marked done, the next tick tries again
	trigger.CheckAndTrigger(context.Background())
	assert.Equal(t, 2, gen.callCount())
}

func TestGenerationTrigger_BusyPeriodCountsAsDone(t *testing.T) {
	gen := &fakeGenerator{results: []error{appbilling.ErrGenerationInProgress}}
	trigger := newTestTrigger(t, gen, time.Date(2025, 3, 2, 0, 0, 0, 0, time.Local))

	trigger.CheckAndTrigger(context.Background())
	trigger.CheckAndTrigger(context.Background())
	assert.Equal(t, 1, gen.callCount())
}

func TestGenerationTrigger_StartStop(t *testing.T) {
	gen := &fakeGenerator{}
	cfg := testConfig()
	cfg.CheckInterval = time.Hour
	trigger, err := NewGenerationTrigger(cfg, gen, nil)
	require.NoError(t, err)
	trigger.now = func() time.Time { return time.Date(2025, 5, 20, 12, 0, 0, 0, time.Local) }

	require.NoError(t, trigger.Start(context.Background()))
	assert.ErrorIs(t, trigger.Start(context.Background()), ErrAlreadyRunning)

	assert.Eventually(t, func() bool { return gen.callCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}
