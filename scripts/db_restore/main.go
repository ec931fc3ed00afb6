package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/garnizeh/sitecms/internal/assets"
	"github.com/garnizeh/sitecms/internal/config"
)

// Run with the server stopped: the database file is overwritten in place.
func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	from := flag.String("from", "", "Backup directory written by db_backup")
	flag.Parse()

	if *from == "" {
		fmt.Fprintln(os.Stderr, "Restore error: -from is required")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := restore(context.Background(), cfg, *from); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Restore completed.")
}

func restore(ctx context.Context, cfg *config.Config, dir string) error {
	src := filepath.Join(dir, filepath.Base(cfg.DatabasePath))
	if err := copyFile(src, cfg.DatabasePath); err != nil {
		return err
	}
	// stale journal files would be replayed over the restored copy
	for _, suffix := range []string{"-wal", "-shm", "-journal"} {
		_ = os.Remove(cfg.DatabasePath + suffix)
	}

	store, err := assets.OpenStore(assets.S3Config(cfg.Storage.S3), cfg.UploadsDir)
	if err != nil {
		return err
	}
	for _, key := range []string{assets.CatalogKey, assets.CatalogMetaKey} {
		data, err := os.ReadFile(filepath.Join(dir, key))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		contentType := "application/json"
		if key == assets.CatalogKey {
			contentType = assets.CatalogMIMEType
		}
		if err := store.Put(ctx, key, data, contentType); err != nil {
			return fmt.Errorf("restore %s: %w", key, err)
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
