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

	"github.com/claimflow/claimflow/internal/app"
	"github.com/claimflow/claimflow/internal/auth"
	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/finance"
	"github.com/claimflow/claimflow/internal/lecturers"
	"github.com/claimflow/claimflow/internal/observability"
	"github.com/claimflow/claimflow/internal/platform/cache"
	"github.com/claimflow/claimflow/internal/platform/db"
	"github.com/claimflow/claimflow/internal/rbac"
	"github.com/claimflow/claimflow/internal/shared"
	"github.com/claimflow/claimflow/internal/validation"
	"github.com/claimflow/claimflow/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "claimflow_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	auditLogger := shared.NewAuditLogger(dbpool)

	rbacService := rbac.NewService(dbpool)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	metrics := observability.NewMetrics()

	claimsRepo := claims.NewRepository(dbpool)
	claimsService := claims.NewService(claimsRepo, auditLogger, claims.ServiceConfig{
		StrictTransitions: cfg.StrictTransitions,
	})
	claimsHandler := claims.NewHandler(logger, claimsService, rbacMiddleware, metrics)

	lecturersRepo := lecturers.NewRepository(dbpool)
	lecturersService := lecturers.NewService(lecturersRepo)
	lecturersHandler := lecturers.NewHandler(logger, lecturersService, rbacMiddleware)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	financeService := finance.NewService(claimsService, lecturersService)
	financeHandler := finance.NewHandler(logger, financeService, claimsService, jobsClient, redisClient, rbacMiddleware)

	validationHandler := validation.NewHandler(logger, claimsService, rbacMiddleware)
	rbacHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       authHandler,
		ClaimsHandler:     claimsHandler,
		LecturersHandler:  lecturersHandler,
		FinanceHandler:    financeHandler,
		ValidationHandler: validationHandler,
		RBACHandler:       rbacHandler,
		JobsHandler:       jobsHandler,
		Metrics:           metrics,
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
