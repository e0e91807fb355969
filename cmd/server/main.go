package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/internal/ai"
	"github.com/brandpulse/brandpulse/internal/api"
	"github.com/brandpulse/brandpulse/internal/cache"
	"github.com/brandpulse/brandpulse/internal/competitor"
	"github.com/brandpulse/brandpulse/internal/db"
	"github.com/brandpulse/brandpulse/internal/platform"
	"github.com/brandpulse/brandpulse/pkg/config"
	"github.com/brandpulse/brandpulse/pkg/logging"
	"github.com/brandpulse/brandpulse/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting BrandPulse API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Connect to Redis; a nil cache degrades to always-miss
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, running without cache", zap.Error(err))
	}
	defer redisCache.Close()

	// Wire the analysis pipeline
	registry := platform.NewRegistry(&cfg.Platforms)
	collector := competitor.NewCollector(registry)
	competitorCache := competitor.NewCache(redisCache, cfg.Collector.CacheFreshness)
	aiClient := ai.NewClient(&cfg.AI)
	repo := db.NewAnalysisRepository(db.NewRepository(database.DB))
	service := competitor.NewService(competitorCache, collector, aiClient, repo, competitor.Options{
		MaxPosts:       cfg.Collector.MaxPosts,
		TimePeriodDays: cfg.Collector.TimePeriodDays,
		Concurrency:    cfg.Collector.Concurrency,
		BatchDelay:     cfg.Collector.BatchDelay,
	})

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	apiRouter := api.NewRouter(database, service)
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
