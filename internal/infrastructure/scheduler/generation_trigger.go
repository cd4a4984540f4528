package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appbilling "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/adspace/backoffice/internal/infrastructure/config"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Generator creates the realizations of one period
type Generator interface {
	Generate(ctx context.Context, period billing.Period, trigger appbilling.Trigger) (*appbilling.GenerateResult, error)
}

// GenerationTriggerConfig holds configuration for the monthly trigger
type GenerationTriggerConfig struct {
	// Day of month (1-28) from which the current month is due
	Day int
	// Hour (0-23, local time) from which the current month is due
	Hour          int
	CheckInterval time.Duration
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultGenerationTriggerConfig returns the defaults: the 1st of each month at 03:00
func DefaultGenerationTriggerConfig() GenerationTriggerConfig {
	return GenerationTriggerConfig{
		Day:           1,
		Hour:          3,
		CheckInterval: time.Hour,
		JobTimeout:    10 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Minute,
	}
}

// GenerationTriggerConfigFrom maps the scheduler section of the application config
func GenerationTriggerConfigFrom(cfg config.SchedulerConfig) GenerationTriggerConfig {
	return GenerationTriggerConfig{
		Day:           cfg.GenerationDay,
		Hour:          cfg.GenerationHour,
		CheckInterval: cfg.CheckInterval,
		JobTimeout:    cfg.JobTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}
}

// Validate checks the configured day and hour
func (c GenerationTriggerConfig) Validate() error {
	if c.Day < 1 || c.Day > 28 {
		return fmt.Errorf("%w: day must be 1-28, got %d", ErrInvalidConfig, c.Day)
	}
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("%w: hour must be 0-23, got %d", ErrInvalidConfig, c.Hour)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("%w: check interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// GenerationTrigger runs realization generation for the current month once the
// configured day and hour have passed. A missed tick is caught up on the next one;
// generation is idempotent so a restart that runs the month again creates nothing.
type GenerationTrigger struct {
	config    GenerationTriggerConfig
	generator Generator
	logger    *zap.Logger
	now       func() time.Time

	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	isRunning  bool
	lastPeriod billing.Period
}

// NewGenerationTrigger creates a new trigger
func NewGenerationTrigger(cfg GenerationTriggerConfig, generator Generator, log *zap.Logger) (*GenerationTrigger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GenerationTrigger{
		config:    cfg,
		generator: generator,
		logger:    log.Named("generation-trigger"),
		now:       time.Now,
	}, nil
}

// Start launches the check loop
func (g *GenerationTrigger) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.isRunning {
		return ErrAlreadyRunning
	}
	g.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.wg.Add(1)
	go g.runLoop(ctx)

	g.logger.Info("Generation trigger started",
		zap.Int("day", g.config.Day),
		zap.Int("hour", g.config.Hour),
		zap.Duration("check_interval", g.config.CheckInterval),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight run
func (g *GenerationTrigger) Stop(ctx context.Context) error {
	g.mu.Lock()
	if !g.isRunning {
		g.mu.Unlock()
		return nil
	}
	g.isRunning = false
	g.cancel()
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		g.logger.Info("Generation trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *GenerationTrigger) runLoop(ctx context.Context) {
	defer g.wg.Done()

	// check right away so a restart after the due time does not wait a full interval
	g.CheckAndTrigger(ctx)

	ticker := time.NewTicker(g.config.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.CheckAndTrigger(ctx)
		}
	}
}

// due reports whether the period of now should be generated
func (g *GenerationTrigger) due(now time.Time) (billing.Period, bool) {
	period := billing.PeriodOf(now)
	g.mu.Lock()
	done := g.lastPeriod == period
	g.mu.Unlock()
	if done {
		return period, false
	}
	if now.Day() < g.config.Day || (now.Day() == g.config.Day && now.Hour() < g.config.Hour) {
		return period, false
	}
	return period, true
}

// CheckAndTrigger generates the current month when it is due and not yet done by this process
func (g *GenerationTrigger) CheckAndTrigger(ctx context.Context) {
	period, ok := g.due(g.now())
	if !ok {
		return
	}
	if err := g.RunPeriod(ctx, period); err != nil {
		return
	}
	g.mu.Lock()
	g.lastPeriod = period
	g.mu.Unlock()
}

// RunPeriod generates one period with retries on infrastructure failures.
// A run already in progress elsewhere counts as success.
func (g *GenerationTrigger) RunPeriod(ctx context.Context, period billing.Period) error {
	ctx, log := logger.WithJob(ctx, g.logger, "generate-realizations:"+period.String())

	attempts := g.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = g.runOnce(ctx, period)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, appbilling.ErrGenerationInProgress):
			log.Info("Generation already running elsewhere, skipping")
			return nil
		case !shared.IsPersistenceError(err):
			log.Error("Generation failed", zap.Error(err))
			return err
		}

		log.Warn("Generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.config.RetryDelay):
		}
	}
	log.Error("Generation gave up", zap.Error(err))
	return err
}

func (g *GenerationTrigger) runOnce(ctx context.Context, period billing.Period) error {
	if g.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.JobTimeout)
		defer cancel()
	}
	_, err := g.generator.Generate(ctx, period, appbilling.TriggerScheduler)
	return err
}
