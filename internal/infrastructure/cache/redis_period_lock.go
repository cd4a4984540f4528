package cache

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultLockPrefix = "realization:generate:"
	defaultLockTTL    = 5 * time.Minute
)

// releaseScript deletes the key only while it still carries our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisPeriodLock serialises generation runs across instances with SET NX + TTL
type RedisPeriodLock struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// NewRedisPeriodLock connects to Redis and verifies the connection
func NewRedisPeriodLock(cfg RedisConfig, logger *zap.Logger) (*RedisPeriodLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisPeriodLockWithClient(client, "", cfg.LockTTL, logger), nil
}

// NewRedisPeriodLockWithClient creates a lock on an existing client
func NewRedisPeriodLockWithClient(client *redis.Client, keyPrefix string, ttl time.Duration, logger *zap.Logger) *RedisPeriodLock {
	if keyPrefix == "" {
		keyPrefix = defaultLockPrefix
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPeriodLock{client: client, keyPrefix: keyPrefix, ttl: ttl, logger: logger}
}

func (l *RedisPeriodLock) key(period billing.Period) string {
	return l.keyPrefix + period.String()
}

// Acquire takes the period or returns ErrGenerationInProgress. An unreachable
// Redis is reported as a PersistenceError so callers may retry.
// The key expires after the TTL even if the holder dies.
func (l *RedisPeriodLock) Acquire(ctx context.Context, period billing.Period) (func(), error) {
	key := l.key(period)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, shared.NewPersistenceError("acquire generation lock", err)
	}
	if !ok {
		return nil, appbilling.ErrGenerationInProgress
	}

	return func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release generation lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Close closes the Redis client
func (l *RedisPeriodLock) Close() error {
	return l.client.Close()
}

var _ appbilling.PeriodLock = (*RedisPeriodLock)(nil)
