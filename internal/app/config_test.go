package app

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "Omega", cfg.DefaultTenant)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.Equal(t, 5432, cfg.DatabasePort)
	require.Equal(t, 24*time.Hour, cfg.FallbackCacheTTL)
	require.Equal(t, 60, cfg.FilterLimitPerMin)
	require.Empty(t, cfg.RedisAddr)
	require.False(t, cfg.IsProduction())
	require.False(t, cfg.Database().Configured())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "https://fin.example.com/v1")
	t.Setenv("DEFAULT_TENANT_ID", "7")
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_NAME", "fhl")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)

	dbCfg := cfg.Database()
	require.True(t, dbCfg.Configured())
	require.Equal(t, "db", dbCfg.Host)
	require.Equal(t, 5432, dbCfg.Port)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"API_BASE_URL":                 "not a url",
		"DEFAULT_TENANT_ID":            "abc",
		"LOG_LEVEL":                    "loud",
		"WARMUP_CRON":                  "61 * * * *",
		"RATE_LIMIT_PER_MINUTE":        "0",
		"FILTER_RATE_LIMIT_PER_MINUTE": "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn"}).Info("hidden")
	require.Empty(t, buf.String())

	newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn"}).Warn("shown", slog.String("k", "v"))
	require.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, nil).Info("plain")
	require.Contains(t, buf.String(), "msg=plain")
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "")
	RefreshTestMode()
	require.False(t, InTestMode())
}
