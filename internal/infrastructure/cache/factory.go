package cache

import (
	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewPeriodLock picks the generation lock for the configuration.
// With Redis disabled or unreachable it falls back to the in-process lock, which only
// protects a single instance; the unique (service, year, month) index still rejects
// duplicates written by a second instance.
func NewPeriodLock(cfg config.RedisConfig, logger *zap.Logger) appbilling.PeriodLock {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory generation lock")
		return NewInMemoryPeriodLock()
	}

	lock, err := NewRedisPeriodLock(RedisConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		LockTTL:  cfg.LockTTL,
	}, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory generation lock", zap.Error(err))
		return NewInMemoryPeriodLock()
	}
	logger.Info("Using Redis generation lock", zap.String("addr", cfg.Addr()))
	return lock
}
