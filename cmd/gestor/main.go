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
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/gestor-pm/gestor/internal/app"
	"github.com/gestor-pm/gestor/internal/auth"
	"github.com/gestor-pm/gestor/internal/clients"
	"github.com/gestor-pm/gestor/internal/collaborators"
	"github.com/gestor-pm/gestor/internal/observability"
	"github.com/gestor-pm/gestor/internal/platform/cache"
	"github.com/gestor-pm/gestor/internal/platform/db"
	"github.com/gestor-pm/gestor/internal/projects"
	"github.com/gestor-pm/gestor/internal/quotations"
	"github.com/gestor-pm/gestor/internal/reports"
	"github.com/gestor-pm/gestor/internal/rigidcosts"
	"github.com/gestor-pm/gestor/internal/shared"
	"github.com/gestor-pm/gestor/internal/users"
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	secret := []byte(cfg.JWTSecret)
	audit := shared.NewAuditRecorder(pool, logger)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	authService := auth.NewService(usersRepo)
	authMiddleware := auth.NewMiddleware(secret)
	authHandler := auth.NewHandler(logger, authService, secret, cfg.JWTTTL)

	clientsRepo := clients.NewRepository(pool)
	clientsHandler := clients.NewHandler(logger, clients.NewService(clientsRepo))

	collaboratorsHandler := collaborators.NewHandler(logger, collaborators.NewService(collaborators.NewRepository(pool)))

	projectsService := projects.NewService(projects.NewRepository(pool), audit)
	projectsHandler := projects.NewHandler(logger, projectsService)

	quotationsService := quotations.NewService(quotations.NewRepository(pool), audit)
	quotationsHandler := quotations.NewHandler(logger, quotationsService, clientsRepo)

	costsService := rigidcosts.NewService(rigidcosts.NewRepository(pool))
	rigidCostsHandler := rigidcosts.NewHandler(logger, costsService)

	reportStore := cache.NewStore(redisClient, "gestor:reports", cfg.ReportCacheTTL)
	reportsService := reports.NewService(reports.NewRepository(pool), costsService, reportStore)
	reportsHandler := reports.NewHandler(logger, reportsService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, jobClient, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		AuthMiddleware:       authMiddleware,
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		ClientsHandler:       clientsHandler,
		CollaboratorsHandler: collaboratorsHandler,
		ProjectsHandler:      projectsHandler,
		QuotationsHandler:    quotationsHandler,
		RigidCostsHandler:    rigidCostsHandler,
		ReportsHandler:       reportsHandler,
		JobsHandler:          jobsHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
