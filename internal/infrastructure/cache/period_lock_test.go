package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPeriodLock(t *testing.T) {
	lock := NewInMemoryPeriodLock()
	ctx := context.Background()
	jan := billing.Period{Year: 2025, Month: 1}

	release, err := lock.Acquire(ctx, jan)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, jan)
	assert.ErrorIs(t, err, appbilling.ErrGenerationInProgress)

	// other periods are independent
	releaseFeb, err := lock.Acquire(ctx, billing.Period{Year: 2025, Month: 2})
	require.NoError(t, err)
	releaseFeb()

	release()
	release() // second call is a no-op

	again, err := lock.Acquire(ctx, jan)
	require.NoError(t, err)
	again()
}

func TestInMemoryPeriodLock_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewInMemoryPeriodLock().Acquire(ctx, billing.Period{Year: 2025, Month: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryPeriodLock_OneWinner(t *testing.T) {
	lock := NewInMemoryPeriodLock()
	period := billing.Period{Year: 2025, Month: 3}

	var winners atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := lock.Acquire(context.Background(), period); err == nil {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestRedisPeriodLock_Key(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	lock := NewRedisPeriodLockWithClient(client, "", 0, nil)
	assert.Equal(t, "realization:generate:2025-02", lock.key(billing.Period{Year: 2025, Month: 2}))
	assert.Equal(t, defaultLockTTL, lock.ttl)
}

func TestRedisPeriodLock_UnreachableIsRetryable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	release, err := NewRedisPeriodLockWithClient(client, "", 0, nil).Acquire(context.Background(), billing.Period{Year: 2025, Month: 2})
	require.Error(t, err)
	assert.Nil(t, release)
	assert.True(t, shared.IsPersistenceError(err), "got %v", err)
	assert.NotErrorIs(t, err, appbilling.ErrGenerationInProgress)
}

func TestNewPeriodLock_Fallback(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		lock := NewPeriodLock(config.RedisConfig{Enabled: false}, nil)
		assert.IsType(t, &InMemoryPeriodLock{}, lock)
	})

	t.Run("unreachable", func(t *testing.T) {
		lock := NewPeriodLock(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, nil)
		assert.IsType(t, &InMemoryPeriodLock{}, lock)
	})
}
