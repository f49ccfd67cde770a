package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/gestor-pm/gestor/internal/app"
	"github.com/gestor-pm/gestor/internal/platform/cache"
	"github.com/gestor-pm/gestor/internal/platform/db"
	"github.com/gestor-pm/gestor/internal/reports"
	"github.com/gestor-pm/gestor/internal/rigidcosts"
	"github.com/gestor-pm/gestor/jobs"
)

func main() {
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	costsService := rigidcosts.NewService(rigidcosts.NewRepository(pool))
	reportStore := cache.NewStore(redisClient, "gestor:reports", cfg.ReportCacheTTL)
	reportsService := reports.NewService(reports.NewRepository(pool), costsService, reportStore)

	renewalJob := jobs.NewRenewalScanJob(costsService, logger)
	expiryJob := jobs.NewQuotationExpiryJob(pool, logger)
	warmupJob := jobs.NewReportWarmupJob(reportsService, logger)

	renewalTask, err := jobs.NewRenewalScanTask(jobs.RenewalScanPayload{DaysAhead: cfg.RenewalLookaheadDays})
	if err != nil {
		logger.Error("build renewal task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskRenewalScan, Handler: renewalJob.Handle},
			{Type: jobs.TaskQuotationExpiry, Handler: expiryJob.Handle},
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 6 * * *", Task: renewalTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 6 * * *", Task: jobs.NewQuotationExpiryTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 5 * * *", Task: jobs.NewReportWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
