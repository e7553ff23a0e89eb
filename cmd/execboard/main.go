package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/execboard/internal/app"
	"github.com/odyssey-erp/execboard/internal/dashboard"
	dashboardhttp "github.com/odyssey-erp/execboard/internal/dashboard/http"
	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/observability"
	"github.com/odyssey-erp/execboard/internal/platform/cache"
	"github.com/odyssey-erp/execboard/internal/tenants"
	"github.com/odyssey-erp/execboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, last-good cache disabled", slog.Any("error", err))
	}
	clientOpts := finapi.Options{
		BaseURL:         cfg.APIBaseURL,
		DefaultTenant:   cfg.DefaultTenant,
		DefaultTenantID: cfg.DefaultTenantID,
		Timeout:         cfg.UpstreamTimeout,
		Logger:          logger,
		Recorder:        metrics,
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		clientOpts.Store = finapi.NewRedisStore(redisClient, cfg.FallbackCacheTTL)
	}
	client := finapi.New(clientOpts)
	if !client.Configured() {
		logger.Info("API_BASE_URL not set, serving bundled data")
	}

	state := dashboard.NewState(client, logger)
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.UpstreamTimeout)
	if err := state.LoadTenantDirectory(loadCtx); err != nil {
		logger.Warn("load tenant directory", slog.Any("error", err))
	}
	cancelLoad()

	overview := dashboard.NewOverview(state, client, logger)
	defer overview.Close()

	var connector tenants.Connector
	if dbCfg := cfg.Database(); dbCfg.Configured() {
		connector = tenants.PostgresConnector(dbCfg)
	}
	tenantsHandler := tenants.NewHandler(logger, tenants.NewService(connector))

	var jobHandler *jobs.Handler
	if cfg.RedisAddr != "" {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	dashboardHandler := dashboardhttp.NewHandler(logger, state, overview)
	dashboardHandler.WithFilterLimit(cfg.FilterLimitPerMin)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          metrics,
		DashboardHandler: dashboardHandler,
		TenantsHandler:   tenantsHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
