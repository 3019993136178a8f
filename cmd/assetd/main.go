package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/odyssey-assets/internal/accounting/journals"
	"github.com/odyssey-erp/odyssey-assets/internal/app"
	"github.com/odyssey-erp/odyssey-assets/internal/assets"
	"github.com/odyssey-erp/odyssey-assets/internal/masterdata/companies"
	"github.com/odyssey-erp/odyssey-assets/internal/observability"
	"github.com/odyssey-erp/odyssey-assets/internal/platform/db"
	"github.com/odyssey-erp/odyssey-assets/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()

	assetRepo := assets.NewRepository(pool)
	companyRepo := companies.NewRepository(pool)
	assetService := assets.NewService(assetRepo, companyRepo, logger)

	journalRepo := journals.NewRepository(pool)
	journalService := journals.NewService(journalRepo)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	assetsHandler := assets.NewHandler(logger, assetService, jobsClient, metrics)
	journalsHandler := journals.NewHandler(logger, journalService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AssetsHandler:   assetsHandler,
		JournalsHandler: journalsHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("asset service listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server run", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
