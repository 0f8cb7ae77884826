package config_test

import (
	"testing"
	"time"

	"scholarsync/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")
	t.Setenv("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres port=5432 sslmode=disable")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.ListenAddr())
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("JWT_EXPIRE", "2h")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr())
	assert.Equal(t, 2*time.Hour, cfg.JWTExpire)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_DSN", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "DATABASE_DSN is required")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_DRIVER", "mongodb")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DATABASE_DRIVER")
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{DatabaseDSN: "host=db user=app sslmode=disable", DatabaseName: "scholar_sync"}
	assert.Equal(t, "host=db user=app sslmode=disable dbname=scholar_sync", cfg.PostgresDSN())

	cfg = &config.Config{DatabaseDSN: "postgres://app:secret@db:5432/postgres?sslmode=disable", DatabaseName: "scholar_sync"}
	assert.Equal(t, "postgres://app:secret@db:5432/scholar_sync?sslmode=disable", cfg.PostgresDSN())

	cfg = &config.Config{DatabaseDSN: "host=db dbname=other"}
	assert.Equal(t, "host=db dbname=other", cfg.PostgresDSN())
}
