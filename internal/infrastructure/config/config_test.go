package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every ADS_ variable the tests touch; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ADS_APP_NAME", "ADS_APP_ENV", "ADS_APP_PORT",
		"ADS_DATABASE_HOST", "ADS_DATABASE_PORT", "ADS_DATABASE_USER", "ADS_DATABASE_PASSWORD",
		"ADS_DATABASE_DBNAME", "ADS_DATABASE_SSLMODE", "ADS_DATABASE_MAX_OPEN_CONNS",
		"ADS_DATABASE_MAX_IDLE_CONNS", "ADS_DATABASE_AUTO_MIGRATE",
		"ADS_REDIS_ENABLED", "ADS_REDIS_LOCK_TTL",
		"ADS_SCHEDULER_ENABLED", "ADS_SCHEDULER_GENERATION_DAY", "ADS_SCHEDULER_GENERATION_HOUR",
		"ADS_TELEMETRY_SAMPLING_RATIO", "ADS_TELEMETRY_DB_LOG_FULL_SQL", "ADS_TELEMETRY_LOGS_ENABLED",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "adspace-backoffice", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "backoffice", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 10*time.Minute, cfg.Redis.LockTTL)
		assert.Equal(t, 1, cfg.Scheduler.GenerationDay)
		assert.Equal(t, "adspace-backoffice", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.LogsEnabled)
	})

	t.Run("loads values from environment variables with ADS prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADS_APP_NAME", "test-app")
		t.Setenv("ADS_APP_PORT", "9000")
		t.Setenv("ADS_DATABASE_HOST", "testdb.local")
		t.Setenv("ADS_DATABASE_PORT", "5433")
		t.Setenv("ADS_DATABASE_PASSWORD", "testpass")
		t.Setenv("ADS_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("ADS_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("ADS_REDIS_ENABLED", "true")
		t.Setenv("ADS_REDIS_LOCK_TTL", "2m")
		t.Setenv("ADS_SCHEDULER_GENERATION_DAY", "5")
		t.Setenv("ADS_TELEMETRY_LOGS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 2*time.Minute, cfg.Redis.LockTTL)
		assert.Equal(t, 5, cfg.Scheduler.GenerationDay)
		assert.Equal(t, "test-app", cfg.Telemetry.ServiceName)
		assert.True(t, cfg.Telemetry.LogsEnabled)
	})

	t.Run("fails when max_idle_conns exceeds max_open_conns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADS_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("ADS_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed database.max_open_conns")
	})

	t.Run("rejects generation day past 28", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADS_SCHEDULER_GENERATION_DAY", "31")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.generation_day")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ADS_APP_ENV", "production")
		t.Setenv("ADS_DATABASE_PASSWORD", "secure-password")
		t.Setenv("ADS_DATABASE_SSLMODE", "require")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		os.Unsetenv("ADS_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ADS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("forbids auto migrate in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ADS_DATABASE_AUTO_MIGRATE", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "auto_migrate")
	})

	t.Run("forbids full SQL in traces in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ADS_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "backoffice.toml")
	content := `
[app]
name = "from-file"
port = "8181"

[scheduler]
enabled = true
generation_day = 2
generation_hour = 6

[redis]
enabled = true
host = "cache.local"
port = 6380
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, "8181", cfg.App.Port)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 2, cfg.Scheduler.GenerationDay)
	assert.Equal(t, 6, cfg.Scheduler.GenerationHour)
	assert.Equal(t, "cache.local:6380", cfg.Redis.Addr())

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("ADS_APP_PORT", "9191")
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "9191", cfg.App.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
