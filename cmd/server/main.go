package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/court-booking-widget/internal/app"
	"github.com/nekogravitycat/court-booking-widget/internal/config"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/logger"
	"github.com/nekogravitycat/court-booking-widget/internal/slot"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	zl, err := logger.New(logger.Options{
		Production: cfg.IsProduction,
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	// Connect Redis (optional)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
	}

	container := app.NewContainer(app.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		BookingAPIURL:       cfg.BookingAPIURL,
		AvailabilityTimeout: cfg.AvailabilityTimeout,
		AvailabilityRPS:     cfg.AvailabilityRPS,
		SessionIdleTTL:      cfg.SessionIdleTTL,
		Hours:               slot.Hours{Open: cfg.OpenHour, Close: cfg.CloseHour},
		Location:            cfg.Location,
		Redis:               rdb,
		CacheTTL:            cfg.CacheTTL,
		Logger:              zl,
	})
	defer container.Close()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		zl.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("booking_api", cfg.BookingAPIURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zl.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited gracefully")
}
