package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/adspace/backoffice/internal/application/billing"
	catalogapp "github.com/adspace/backoffice/internal/application/catalog"
	contractapp "github.com/adspace/backoffice/internal/application/contract"
	financeapp "github.com/adspace/backoffice/internal/application/finance"
	identityapp "github.com/adspace/backoffice/internal/application/identity"
	partnerapp "github.com/adspace/backoffice/internal/application/partner"
	"github.com/adspace/backoffice/internal/infrastructure/cache"
	"github.com/adspace/backoffice/internal/infrastructure/config"
	"github.com/adspace/backoffice/internal/infrastructure/export"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/persistence"
	"github.com/adspace/backoffice/internal/infrastructure/scheduler"
	"github.com/adspace/backoffice/internal/infrastructure/telemetry"
	"github.com/adspace/backoffice/internal/interfaces/http/handler"
	"github.com/adspace/backoffice/internal/interfaces/http/middleware"
	"github.com/adspace/backoffice/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer shutdown(log, "logger provider", lp.Shutdown)
	log = lp.Bridge(log, cfg.Telemetry.ServiceName)

	log.Info("Starting back office",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tp.Shutdown)

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer shutdown(log, "meter provider", mp.Shutdown)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  mp.Meter("adspace-backoffice/business"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithOptions(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.MapGormLogLevel(cfg.Log.GormMode),
		Tracing: telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		},
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to auto-migrate schema", zap.Error(err))
		}
		log.Warn("Schema auto-migrated; use cmd/migrate outside development")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	counterpartyRepo := persistence.NewGormCounterpartyRepository(db.DB)
	objectRepo := persistence.NewGormPropertyObjectRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	realizationRepo := persistence.NewGormRealizationRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	periodLock := cache.NewPeriodLock(cfg.Redis, log)
	if closer, ok := periodLock.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("Error closing generation lock", zap.Error(err))
			}
		}()
	}

	// Application services
	generationService := billingapp.NewGenerationService(txScope.Billing(), periodLock, log)
	generationService.SetMetrics(businessMetrics)
	realizationService := billingapp.NewRealizationService(
		txScope.Billing(), realizationRepo, counterpartyRepo, contractRepo, userRepo, log,
	)
	realizationService.SetExporter(export.NewXLSXRealizationExporter())
	realizationService.SetAllocationSource(paymentRepo)
	paymentService := financeapp.NewPaymentService(txScope.Finance(), paymentRepo, log)
	paymentService.SetMetrics(businessMetrics)
	counterpartyService := partnerapp.NewCounterpartyService(counterpartyRepo, log)
	objectService := catalogapp.NewPropertyObjectService(objectRepo, log)
	contractService := contractapp.NewContractService(contractRepo, counterpartyRepo, userRepo, objectRepo, log)
	userService := identityapp.NewUserService(userRepo, log)

	if cfg.Scheduler.Enabled {
		trigger, err := scheduler.NewGenerationTrigger(
			scheduler.GenerationTriggerConfigFrom(cfg.Scheduler), generationService, log,
		)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start generation trigger", zap.Error(err))
		}
		defer shutdown(log, "generation trigger", trigger.Stop)
		log.Info("Generation trigger started",
			zap.Int("day", cfg.Scheduler.GenerationDay),
			zap.Int("hour", cfg.Scheduler.GenerationHour),
			zap.Duration("check_interval", cfg.Scheduler.CheckInterval),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(mp),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	router.Mount(engine, "v1", router.APIRoutes(router.Handlers{
		Realizations:    handler.NewRealizationHandler(generationService, realizationService),
		Payments:        handler.NewPaymentHandler(paymentService),
		Counterparties:  handler.NewCounterpartyHandler(counterpartyService),
		PropertyObjects: handler.NewPropertyObjectHandler(objectService),
		Contracts:       handler.NewContractHandler(contractService),
		Users:           handler.NewUserHandler(userService),
		Health:          handler.NewHealthHandler(db, cfg.App.Version),
	})...)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shutdown stops a component with a bounded wait, logging failures
func shutdown(log *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Error("Error stopping "+name, zap.Error(err))
	}
}
