package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/garnizeh/sitecms/internal/assets"
	"github.com/garnizeh/sitecms/internal/config"
	"github.com/garnizeh/sitecms/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "", "Backup directory (default backup-<timestamp>)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	dir := *out
	if dir == "" {
		dir = "backup-" + time.Now().UTC().Format("20060102-150405")
	}
	if err := backup(context.Background(), cfg, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Backup completed in %s.\n", dir)
}

func backup(ctx context.Context, cfg *config.Config, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.DatabasePath, nil)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Backup(ctx, filepath.Join(dir, filepath.Base(cfg.DatabasePath))); err != nil {
		return err
	}

	store, err := assets.OpenStore(assets.S3Config(cfg.Storage.S3), cfg.UploadsDir)
	if err != nil {
		return err
	}
	for _, key := range []string{assets.CatalogKey, assets.CatalogMetaKey} {
		data, err := store.Get(ctx, key)
		if errors.Is(err, assets.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if err := os.WriteFile(filepath.Join(dir, key), data, 0o644); err != nil {
			return err
		}
	}

	return nil
}
