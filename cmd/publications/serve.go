package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aidin1998/publications/api"
	"github.com/Aidin1998/publications/internal/config"
	"github.com/Aidin1998/publications/internal/database"
	"github.com/Aidin1998/publications/internal/publications"
	"github.com/Aidin1998/publications/internal/telemetry"
	"github.com/Aidin1998/publications/pkg/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func serve(configFile string) error {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Tracing)
	if err != nil {
		zapLogger.Error("Failed to set up telemetry", zap.Error(err))
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			zapLogger.Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	db, err := database.Open(cfg.Database)
	if err != nil {
		zapLogger.Error("Failed to connect to database",
			zap.String("driver", cfg.Database.Driver),
			zap.String("environment", cfg.Environment),
			zap.Error(err))
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zapLogger.Error("Failed to close database", zap.Error(err))
		}
	}()

	if cfg.Monitoring.Enabled {
		go database.CollectPoolStats(ctx, db, cfg.Database.Driver, cfg.Monitoring.PoolInterval, zapLogger)
	}

	service := publications.NewService(zapLogger, publications.NewGormStore(db))
	server := api.NewServer(cfg, zapLogger, service)
	if err := server.Start(); err != nil {
		zapLogger.Error("Failed to start server", zap.String("addr", cfg.Server.Addr()), zap.Error(err))
		return err
	}

	<-ctx.Done()
	stop()
	zapLogger.Info("Shutdown signal received")

	// ctx is already cancelled here
	if err := server.Shutdown(context.Background()); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	zapLogger.Info("Server exited")
	return nil
}
