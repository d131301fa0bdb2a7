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

	"github.com/billfold/billfold/internal/app"
	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/billing"
	"github.com/billfold/billfold/internal/catalog"
	"github.com/billfold/billfold/internal/customers"
	"github.com/billfold/billfold/internal/dashboard"
	"github.com/billfold/billfold/internal/dealers"
	"github.com/billfold/billfold/internal/platform/cache"
	"github.com/billfold/billfold/internal/platform/db"
	"github.com/billfold/billfold/internal/reports"
	"github.com/billfold/billfold/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
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

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authMW := auth.Middleware{Tokens: tokens, Logger: logger}

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokens)
	authHandler := auth.NewHandler(logger, authService, authMW)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService, authMW)

	dealerRepo := dealers.NewRepository(pool)
	dealerHandler := dealers.NewHandler(logger, dealerRepo, authMW)

	customerRepo := customers.NewRepository(pool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService, authMW)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo, customerService, logger)
	billingHandler := billing.NewHandler(logger, billingService, authMW)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo)
	reportHandler := reports.NewHandler(logger, reportService, authMW)

	dashboardRepo := dashboard.NewRepository(pool)
	dashboardCache := dashboard.NewCache(redisClient, time.Minute)
	dashboardService := dashboard.NewService(dashboardRepo, reportService, dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, authMW)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, authMW, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		DealerHandler:    dealerHandler,
		CustomerHandler:  customerHandler,
		BillingHandler:   billingHandler,
		ReportHandler:    reportHandler,
		DashboardHandler: dashboardHandler,
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
