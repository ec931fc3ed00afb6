package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	dbfs "github.com/garnizeh/sitecms/db"
	"github.com/garnizeh/sitecms/internal/config"
	"github.com/garnizeh/sitecms/internal/db"
	"github.com/garnizeh/sitecms/internal/repository/sqlite"
	"github.com/garnizeh/sitecms/internal/schema"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	// migrations, column upgrades and seed data
	initializer := schema.New(database, sqlite.New(database, logger), dbfs.Migrations, dbfs.SeedFiles, cfg.AdminUsername, cfg.AdminPassword, logger)
	if err := initializer.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Initialization error: %v\n", err)
		database.Close()
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
