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

	"github.com/joho/godotenv"
	"github.com/leapscholar/perception-monitor/internal/backend"
	"github.com/leapscholar/perception-monitor/internal/config"
	"github.com/leapscholar/perception-monitor/internal/dashboard"
	"github.com/leapscholar/perception-monitor/internal/notifications"
	"github.com/leapscholar/perception-monitor/internal/scheduler"
	"github.com/leapscholar/perception-monitor/internal/server"
	"github.com/leapscholar/perception-monitor/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Infof("Starting Perception Monitor (backend: %s)", cfg.BackendURL)

	store, err := newStorage(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	archive := storage.NewArchive(store, cfg.ArchiveKeep)

	client := backend.NewClient(cfg.BackendURL, cfg.RequestTimeout)
	orchestrator := dashboard.NewOrchestrator(cfg, client, nil)

	// First fetch cycle runs in the background; panels answer 503 until it lands
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
		defer cancel()
		if _, err := orchestrator.Load(ctx); err != nil {
			logrus.Errorf("Initial fetch cycle failed: %v", err)
		}
	}()

	schedulerService, err := scheduler.NewService(cfg, orchestrator, archive, notifications.NewService(cfg))
	if err != nil {
		logrus.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	api := server.NewServer(orchestrator, archive, 2*cfg.RequestTimeout)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	orchestrator.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newStorage prefers Azure Blob Storage and falls back to the local archive directory
func newStorage(cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount == "" {
		logrus.Infof("Archiving snapshots to local directory %s", cfg.ArchiveDir)
		fileStorage, err := storage.NewFileStorage(cfg.ArchiveDir)
		if err != nil {
			return nil, err
		}
		return fileStorage, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logrus.Infof("Archiving snapshots to Azure container %s/%s", cfg.StorageAccount, cfg.StorageContainer)
	azureStorage, err := storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
	if err != nil {
		return nil, err
	}
	return azureStorage, nil
}
