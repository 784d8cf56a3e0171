package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/frameshot/mockup-renderer/internal/config"
	"github.com/frameshot/mockup-renderer/internal/device"
	"github.com/frameshot/mockup-renderer/internal/handlers"
	"github.com/frameshot/mockup-renderer/internal/mockup"
	"github.com/frameshot/mockup-renderer/internal/redisq"
	"github.com/frameshot/mockup-renderer/internal/video"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Create context for graceful shutdown
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the device catalog: built-in specs plus bundled YAML overrides
	catalog := device.NewCatalog()
	if err := catalog.LoadDir(cfg.Assets.DevicesPath); err != nil {
		logger.Warn("Failed to load device specs", zap.Error(err))
	}
	logger.Info("Device catalog loaded", zap.Strings("devices", catalog.IDs()))

	composer := mockup.NewComposer(catalog, cfg.Assets.FramesPath, cfg.Render.DefaultDevice, logger)

	pool := mockup.NewWorkerPool(cfg.Render.Workers, composer, cfg.Render.TimeoutSeconds, logger)
	pool.Start()

	compositor := video.NewCompositor(&cfg.Video, catalog, cfg.Assets.FramesPath, logger)

	// Redis is optional: it enables the render cache and the stream consumer
	var renderCache *mockup.RenderCache
	var consumer *redisq.Consumer
	if cfg.Redis.Addr != "" {
		client, err := redisq.NewClient(cfg.Redis, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()

		renderCache = mockup.NewRenderCacheFromClient(client.Redis(), cfg.Render.CacheTTL)

		consumer = redisq.NewConsumer(client, composer, logger)
		go func() {
			if err := consumer.Start(); err != nil {
				logger.Error("Redis consumer failed", zap.Error(err))
				cancel()
			}
		}()
	} else {
		logger.Info("Redis not configured, cache and queue consumer disabled")
	}

	// Create HTTP server for the mockup API
	mux := http.NewServeMux()
	mockupHandler := handlers.NewMockupHandler(composer, pool, renderCache, compositor, catalog, logger)
	mockupHandler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
			cancel()
		}
	}()

	logger.Info("Server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("frames_path", cfg.Assets.FramesPath),
		zap.Int("render_workers", cfg.Render.Workers))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// Stop the queue consumer and the render worker pool
	if consumer != nil {
		consumer.Stop()
	}
	pool.Stop()

	// Cancel the main context to stop all operations
	cancel()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout exceeded")
	case <-time.After(2 * time.Second):
		logger.Info("Server shutdown complete")
	}
}
