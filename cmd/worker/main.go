package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-assets/internal/app"
	"github.com/odyssey-erp/odyssey-assets/internal/assets"
	"github.com/odyssey-erp/odyssey-assets/internal/masterdata/companies"
	"github.com/odyssey-erp/odyssey-assets/internal/observability"
	"github.com/odyssey-erp/odyssey-assets/internal/platform/cache"
	"github.com/odyssey-erp/odyssey-assets/internal/platform/db"
	"github.com/odyssey-erp/odyssey-assets/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	assetRepo := assets.NewRepository(pool)
	companyRepo := companies.NewRepository(pool)
	assetService := assets.NewService(assetRepo, companyRepo, logger)

	depreciationJob := jobs.NewDepreciationPostJob(assetService, redisClient, cfg.DepreciationLockTTL, logger, metrics)

	nightlyTask, err := jobs.NewDepreciationPostTask(time.Time{})
	if err != nil {
		logger.Error("build depreciation task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDepreciationPost, Handler: depreciationJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.DepreciationCron, Task: nightlyTask, Options: []asynq.Option{asynq.MaxRetry(3), asynq.Unique(time.Hour)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
