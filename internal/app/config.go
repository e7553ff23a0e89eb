package app

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/odyssey-erp/execboard/internal/platform/db"
	"github.com/odyssey-erp/execboard/jobs"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"20s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	APIBaseURL      string        `envconfig:"API_BASE_URL"`
	DefaultTenant   string        `envconfig:"DEFAULT_TENANT" default:"Omega"`
	DefaultTenantID string        `envconfig:"DEFAULT_TENANT_ID"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	PGDSN            string `envconfig:"PG_DSN"`
	DatabaseHost     string `envconfig:"DATABASE_HOST"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseUser     string `envconfig:"DATABASE_USER"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseName     string `envconfig:"DATABASE_NAME"`
	DatabaseSSL      bool   `envconfig:"DATABASE_SSL" default:"false"`

	RedisAddr        string        `envconfig:"REDIS_ADDR"`
	FallbackCacheTTL time.Duration `envconfig:"FALLBACK_CACHE_TTL" default:"24h"`
	WarmupCron       string        `envconfig:"WARMUP_CRON" default:"*/15 * * * *"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	FilterLimitPerMin  int      `envconfig:"FILTER_RATE_LIMIT_PER_MINUTE" default:"60"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if raw := strings.TrimSpace(c.APIBaseURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", raw)
		}
	}
	if id := strings.TrimSpace(c.DefaultTenantID); id != "" {
		if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
			return fmt.Errorf("DEFAULT_TENANT_ID must be a positive integer, got %q", id)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.WarmupCron != "" {
		if err := jobs.ValidateCronSpec(c.WarmupCron); err != nil {
			return err
		}
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.FilterLimitPerMin <= 0 {
		return fmt.Errorf("FILTER_RATE_LIMIT_PER_MINUTE must be positive, got %d", c.FilterLimitPerMin)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Database returns the tenant directory database settings.
func (c *Config) Database() db.Config {
	return db.Config{
		DSN:      c.PGDSN,
		Host:     c.DatabaseHost,
		Port:     c.DatabasePort,
		User:     c.DatabaseUser,
		Password: c.DatabasePassword,
		Database: c.DatabaseName,
		SSL:      c.DatabaseSSL,
	}
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
