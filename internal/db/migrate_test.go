package db_test

import (
	"context"
	"testing"
	"testing/fstest"

	dbfs "github.com/garnizeh/sitecms/db"
	"github.com/garnizeh/sitecms/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 migrations recorded, got %d", count)
	}

	for _, table := range []string{"users", "categories", "products", "job_openings", "translations"} {
		var name string
		if err := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}
}

func TestMigrate_MissingDir(t *testing.T) {
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, fstest.MapFS{}); err == nil {
		t.Fatalf("expected error for missing migrations dir")
	}
}

func TestMigrate_BadSQL(t *testing.T) {
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	fsys := fstest.MapFS{
		"migrations/0001_bad.sql": &fstest.MapFile{Data: []byte("CREATE TABLE (")},
		"migrations/README.md":    &fstest.MapFile{Data: []byte("ignored")},
	}
	if err := db.Migrate(ctx, d, fsys); err == nil {
		t.Fatalf("expected error for bad migration")
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed migration must not be recorded, got %d", count)
	}
}

func TestEnsureColumn(t *testing.T) {
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	exists, err := db.ColumnExists(ctx, d, "products", "document")
	if err != nil {
		t.Fatalf("ColumnExists: %v", err)
	}
	if exists {
		t.Fatalf("document column must not exist before EnsureColumn")
	}

	added, err := db.EnsureColumn(ctx, d, "products", "document", "TEXT")
	if err != nil {
		t.Fatalf("EnsureColumn: %v", err)
	}
	if !added {
		t.Fatalf("expected column to be added")
	}

	added, err = db.EnsureColumn(ctx, d, "products", "document", "TEXT")
	if err != nil {
		t.Fatalf("second EnsureColumn: %v", err)
	}
	if added {
		t.Fatalf("second EnsureColumn must be a no-op")
	}

	if _, err := db.EnsureColumn(ctx, d, "products; DROP TABLE users", "x", "TEXT"); err == nil {
		t.Fatalf("expected error for invalid table name")
	}
	if _, err := db.EnsureColumn(ctx, d, "products", "bad col", "TEXT"); err == nil {
		t.Fatalf("expected error for invalid column name")
	}
}
