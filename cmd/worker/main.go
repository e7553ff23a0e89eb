package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/execboard/internal/app"
	"github.com/odyssey-erp/execboard/internal/finapi"
	jobmetrics "github.com/odyssey-erp/execboard/internal/jobs"
	"github.com/odyssey-erp/execboard/internal/observability"
	"github.com/odyssey-erp/execboard/internal/platform/cache"
	"github.com/odyssey-erp/execboard/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	client := finapi.New(finapi.Options{
		BaseURL:         cfg.APIBaseURL,
		DefaultTenant:   cfg.DefaultTenant,
		DefaultTenantID: cfg.DefaultTenantID,
		Timeout:         cfg.UpstreamTimeout,
		Logger:          logger,
		Recorder:        metrics,
		Store:           finapi.NewRedisStore(redisClient, cfg.FallbackCacheTTL),
	})
	warmupJob := jobs.NewDashboardWarmupJob(client, logger, jobmetrics.NewMetrics(metrics.Registerer()))

	var schedule []jobs.CronRegistration
	if cfg.WarmupCron != "" {
		warmupTask, err := jobs.NewWarmupTask(jobs.WarmupPayload{})
		if err != nil {
			logger.Error("build warmup task", slog.Any("error", err))
			os.Exit(1)
		}
		schedule = append(schedule, jobs.CronRegistration{
			Spec:    cfg.WarmupCron,
			Task:    warmupTask,
			Options: []asynq.Option{asynq.MaxRetry(3)},
		})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: schedule,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
