package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluebrandly-api/internal/bluesky"
	"github.com/bluebrandly-api/internal/config"
	"github.com/bluebrandly-api/internal/email"
	"github.com/bluebrandly-api/internal/handler"
	"github.com/bluebrandly-api/internal/imagecache"
	"github.com/bluebrandly-api/internal/postgres"
	"github.com/bluebrandly-api/internal/service"
	"github.com/bluebrandly-api/internal/stripe"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("failed to load config file, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL
	logger.Info("connecting to PostgreSQL")
	repo, err := postgres.NewRepository(&cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to PostgreSQL")

	// Run database migrations
	if err := repo.RunMigrations(ctx); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize the image cache when Redis is enabled; the proxy works
	// without it.
	var imageCache service.ImageCache
	if cfg.Redis.Enabled {
		logger.Info("connecting to Redis", "addr", cfg.Redis.Addr)
		cache, err := imagecache.NewCache(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("failed to connect to Redis, continuing without image cache", "error", err)
		} else {
			defer cache.Close()
			imageCache = cache
			logger.Info("connected to Redis")
		}
	}

	// Initialize outbound clients
	blueskyClient := bluesky.NewClient(&cfg.Bluesky, logger)
	stripeClient := stripe.NewClient(&cfg.Stripe)
	mailer := email.NewClient(&cfg.Email, &cfg.Site)

	// Initialize services
	profileService := service.NewProfileService(blueskyClient, cfg.Bluesky.FeedLimit, logger)
	waitlistService := service.NewWaitlistService(repo, mailer, logger)
	checkoutService := service.NewCheckoutService(stripeClient, waitlistService, &cfg.Site, logger)
	imageProxy := service.NewImageProxyService(service.NewHTTPFetcher(), imageCache, logger)

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(profileService, waitlistService, checkoutService, imageProxy, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpHandler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	}

	logger.Info("server stopped")
}
