package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentApp)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	summaryCache := cache.NewLRUCache[services.Summary](cfg.CacheSize, cfg.CacheTTL)
	cacheManager := cache.NewManager(logger.Logger.With(log.FieldComponent, log.ComponentCache))
	cacheManager.Register(summaryCache)
	cacheManager.StartCleanup(time.Minute)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	summary := services.NewSummaryService(result.Store, result.Store, summaryCache, logger)
	transactions := services.NewTransactionService(result.Store, logger, summary)
	if result.Publisher != nil {
		transactions.Observe(services.NewPublishObserver(result.Publisher, logger))
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:        ":" + cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		ReadTimeout: cfg.ReadTimeout,
	}, apphttp.Services{
		Auth:         services.NewAuthService(result.Store, auth.NewHasher(cfg.BcryptCost), issuer, logger),
		Transactions: transactions,
		Categories:   services.NewCategoryService(result.Store),
		Budgets:      services.NewBudgetService(result.Store),
		Summary:      summary,
	}, issuer, result.Store, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cacheManager.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	go func() {
		logger.Info("Starting server",
			"addr", srv.Addr,
			"backend", cfg.DataBackend,
			"amqp_enabled", result.Publisher != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", log.FieldError, err, "addr", srv.Addr)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
