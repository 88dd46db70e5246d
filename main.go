package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"

	"tradescope/config"
	"tradescope/internal/adapters/binanceclient"
	"tradescope/internal/adapters/logger"
	"tradescope/internal/adapters/sqlite"
	"tradescope/internal/app"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Broker Client (Binance Adapter)
	broker, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	appLogger.Info(context.Background(), "Binance client initialized")

	// 5. Initialize and run the report service
	service, err := app.NewReportService(cfg, appLogger, broker, repo, os.Stdout)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize report service")
		log.Fatalf("FATAL: Failed to initialize report service: %v", err)
	}

	ctx := context.Background()
	if cfg.WatchInterval > 0 {
		err = service.Watch(ctx)
	} else {
		err = service.Run(ctx)
	}
	if err != nil {
		appLogger.Error(ctx, err, "Analysis failed")
		os.Exit(1)
	}
}
