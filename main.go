package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SpaceXe-tech/yt-api/config"
	"github.com/SpaceXe-tech/yt-api/internal/cache"
	"github.com/SpaceXe-tech/yt-api/internal/download"
	"github.com/SpaceXe-tech/yt-api/internal/extractor"
	"github.com/SpaceXe-tech/yt-api/internal/handler"
	"github.com/SpaceXe-tech/yt-api/internal/service"
	"github.com/SpaceXe-tech/yt-api/internal/storage"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Youtube Download API",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	// Open the metadata store
	store, err := cache.OpenSQLite(cfg.Cache.DatabasePath)
	if err != nil {
		logger.Logger.Fatal("Failed to open metadata store", zap.Error(err))
	}
	defer store.Close()

	metadataCache := cache.New(store, time.Duration(cfg.Cache.TTLHours)*time.Hour)
	metadataCache.StartSweeper(time.Duration(cfg.Cache.SweepInterval) * time.Second)
	defer metadataCache.StopSweeper()

	// Initialize artifact storage
	storageManager := storage.NewManager(&cfg.Storage)
	if err := storageManager.EnsureDir(); err != nil {
		logger.Logger.Fatal("Failed to create artifact directory", zap.Error(err))
	}
	storageManager.Start()
	defer storageManager.Stop()

	// Initialize collaborators and services
	youtubeClient := extractor.NewYouTube(time.Duration(cfg.Extractor.Timeout) * time.Second)
	orchestrator := download.NewOrchestrator(youtubeClient, storageManager, &cfg.Storage)
	mediaService := service.NewMediaService(metadataCache, youtubeClient, orchestrator, &cfg.Extractor)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(logger.GinLogger())

	// Completed artifacts are served as static files
	router.Static("/static/media", cfg.Storage.DownloadDir)

	// API handlers
	videoHandler := handler.NewVideoHandler(mediaService, youtubeClient, cfg)
	downloadHandler := handler.NewDownloadHandler(mediaService, cfg)

	// Routes
	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/search", videoHandler.SearchVideos)
			v1.POST("/metadata", videoHandler.GetVideoMetadata)
			v1.POST("/download", downloadHandler.StartDownload)
			v1.GET("/download/ws", downloadHandler.DownloadWS)
		}

		// Health check
		api.GET("/health", videoHandler.HealthCheck)
	}

	// Start server
	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
		// Write timeout must cover a whole synchronous download.
		WriteTimeout: time.Duration(cfg.Server.Timeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server stopped")
}
