package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/sitecms/api"
	dbfs "github.com/garnizeh/sitecms/db"
	"github.com/garnizeh/sitecms/internal/assets"
	"github.com/garnizeh/sitecms/internal/config"
	"github.com/garnizeh/sitecms/internal/db"
	"github.com/garnizeh/sitecms/internal/repository/sqlite"
	"github.com/garnizeh/sitecms/internal/schema"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}

	logger.Info("starting sitecms server", "version", version, "build_time", buildTime)

	ctx := context.Background()

	// Open database connection
	db, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}

	repo := sqlite.New(db, logger)
	initializer := schema.New(db, repo, dbfs.Migrations, dbfs.SeedFiles, cfg.AdminUsername, cfg.AdminPassword, logger)
	if cfg.InitOnStart {
		if err := initializer.Initialize(ctx); err != nil {
			logger.Error("database initialization failed", "err", err)
			_ = db.Close()
			os.Exit(1)
		}
	}

	store, err := assets.OpenStore(assets.S3Config(cfg.Storage.S3), cfg.UploadsDir)
	if err != nil {
		logger.Error("failed to open asset store", "err", err)
		_ = db.Close()
		os.Exit(1)
	}
	logger.Info("asset store ready", "s3", cfg.Storage.S3.Enabled(), "location", store.Location(assets.CatalogKey))

	handler := api.SetupRoutes(cfg, version, buildTime, db, assets.NewCatalog(store), initializer)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutting down server")
	case err := <-errCh:
		logger.Error("server failed", "err", err)
	}

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	// Close database connection
	if err := db.Close(); err != nil {
		logger.Error("error closing database", "err", err)
	}

	logger.Info("server exited")
}
