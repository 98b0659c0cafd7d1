package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSecretKey = "dev-secret-key-change-me-0123456789abcdef"

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	SecretKey   string

	Database DatabaseConfig
	RedisURL string
	Session  SessionConfig
	Events   EventsConfig

	CSRFEnabled   bool
	AdminPassword string
	PhotoMaxBytes int64
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type EventsConfig struct {
	KafkaBrokers []string
	TopicPrefix  string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LoadConfig reads configuration from the environment, after loading a .env
// file from the working directory when one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (*Config, error) {
	l := loader{}

	cfg := &Config{
		Port:        getEnv("PORT", "5555"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    l.logLevel("LOG_LEVEL", slog.LevelInfo),
		SecretKey:   getEnv("SECRET_KEY", ""),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			DSN:             getEnv("DATABASE_URL", "portfolio.db"),
			MaxOpenConns:    l.int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    l.int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: l.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		RedisURL: getEnv("REDIS_URL", ""),
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "portfolio_session"),
			TTL:        l.duration("SESSION_TTL", 24*time.Hour),
			Secure:     l.bool("SESSION_SECURE", false),
		},
		Events: EventsConfig{
			KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
			TopicPrefix:  getEnv("EVENTS_TOPIC_PREFIX", "portfolio."),
		},
		CSRFEnabled:   l.bool("CSRF_ENABLED", true),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		PhotoMaxBytes: int64(l.int("PHOTO_MAX_BYTES", 5<<20)),
	}

	if l.err != nil {
		return nil, l.err
	}

	if cfg.SecretKey == "" {
		if cfg.IsProduction() {
			return nil, errors.New("SECRET_KEY is required in production")
		}
		cfg.SecretKey = defaultSecretKey
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	return cfg, nil
}

// loader accumulates the first parse error so LoadConfig can report it once.
type loader struct {
	err error
}

func (l *loader) fail(key, value string, err error) {
	if l.err == nil {
		l.err = fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
}

func (l *loader) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	return n
}

func (l *loader) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	return b
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.fail(key, v, err)
		return def
	}
	return d
}

func (l *loader) logLevel(key string, def slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		l.fail(key, v, err)
		return def
	}
	return level
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
