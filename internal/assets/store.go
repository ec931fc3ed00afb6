// Package assets stores binary assets (the downloadable catalog) behind a
// keyed blob store backed by the local filesystem or S3-compatible storage.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("asset not found")

// BlobStore is a flat key/value store for asset bytes.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Location returns a human readable location for key (a path or URL).
	Location(key string) string
}

// DiskStore keeps blobs as files under a single directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("disk store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk store: create %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("disk store: invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Put writes to a temp file and renames it over the target so readers never see a partial file.
func (s *DiskStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp := filepath.Join(s.dir, "."+key+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("disk store: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("disk store: rename %s: %w", key, err)
	}

	return nil
}

func (s *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("disk store: read %s: %w", key, err)
	}
	return b, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("disk store: delete %s: %w", key, err)
	}
	return nil
}

func (s *DiskStore) Location(key string) string {
	return filepath.Join(s.dir, key)
}

// OpenStore returns an S3Store when s3cfg carries an endpoint and credentials,
// otherwise a DiskStore rooted at dir.
func OpenStore(s3cfg S3Config, dir string) (BlobStore, error) {
	s3store, err := NewS3Store(s3cfg)
	if err != nil {
		return nil, err
	}
	if s3store != nil {
		return s3store, nil
	}
	return NewDiskStore(dir)
}
