package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5555", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "portfolio_session", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, "admin123", cfg.AdminPassword)
	assert.Equal(t, defaultSecretKey, cfg.SecretKey)
	assert.Nil(t, cfg.Events.KafkaBrokers)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "10000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("CSRF_ENABLED", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.False(t, cfg.CSRFEnabled)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad int", key: "DB_MAX_OPEN_CONNS", val: "many"},
		{name: "bad duration", key: "SESSION_TTL", val: "forever"},
		{name: "bad bool", key: "SESSION_SECURE", val: "maybe"},
		{name: "bad level", key: "LOG_LEVEL", val: "loud"},
		{name: "unknown driver", key: "DB_DRIVER", val: "oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SECRET_KEY", "")

	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("SECRET_KEY", "a-real-secret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
