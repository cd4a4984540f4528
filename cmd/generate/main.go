package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	billingapp "github.com/adspace/backoffice/internal/application/billing"
	"github.com/adspace/backoffice/internal/domain/billing"
	"github.com/adspace/backoffice/internal/infrastructure/cache"
	"github.com/adspace/backoffice/internal/infrastructure/config"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		month   string
		timeout time.Duration
	)
	flag.StringVar(&month, "period", billing.PeriodOf(time.Now()).String(), "Month to generate, YYYY-MM")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Abort the run after this long")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithOptions(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.MapGormLogLevel(cfg.Log.GormMode),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// share the server's lock so a CLI run cannot overlap a scheduled one
	lock := cache.NewPeriodLock(cfg.Redis, log)
	if closer, ok := lock.(io.Closer); ok {
		defer closer.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc := billingapp.NewGenerationService(persistence.NewGormTransactionScope(db.DB).Billing(), lock, log)
	result, err := svc.GenerateForMonth(ctx, month, billingapp.TriggerCLI)
	if err != nil {
		log.Fatal("Generation failed", zap.String("period", month), zap.Error(err))
	}

	log.Info("Generation finished",
		zap.String("period", result.Period),
		zap.Int("generated", result.GeneratedCount),
	)
	for _, r := range result.Realizations {
		fmt.Printf("  %s  %s  %s\n", r.ID, r.CounterpartyID, r.TotalSale.StringFixed(2))
	}
}
