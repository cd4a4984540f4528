package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	identityapp "github.com/adspace/backoffice/internal/application/identity"
	"github.com/adspace/backoffice/internal/domain/identity"
	"github.com/adspace/backoffice/internal/infrastructure/config"
	"github.com/adspace/backoffice/internal/infrastructure/logger"
	"github.com/adspace/backoffice/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		email    string
		name     string
		password string
		role     string
	)
	flag.StringVar(&email, "email", "manager@test.com", "Manager email")
	flag.StringVar(&name, "name", "Борис", "Manager display name")
	flag.StringVar(&password, "password", "", "Initial password (or ADS_SEED_PASSWORD)")
	flag.StringVar(&role, "role", string(identity.RoleManager), "Role: ADMIN or MANAGER")
	flag.Parse()

	if password == "" {
		password = os.Getenv("ADS_SEED_PASSWORD")
	}

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

	if password == "" {
		log.Fatal("Password required: pass -password or set ADS_SEED_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithOptions(&cfg.Database, persistence.Options{
		Logger:   log,
		LogLevel: logger.MapGormLogLevel("error"),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := identityapp.NewUserService(persistence.NewGormUserRepository(db.DB), log)
	user, created, err := users.EnsureUser(ctx, identityapp.CreateUserRequest{
		Email:    email,
		Name:     name,
		Password: password,
		Role:     role,
	})
	if err != nil {
		log.Fatal("Failed to seed manager", zap.Error(err))
	}

	if created {
		log.Info("Manager created", zap.String("id", user.ID.String()), zap.String("email", user.Email))
	} else {
		log.Info("Manager already exists", zap.String("id", user.ID.String()), zap.String("email", user.Email))
	}
}
