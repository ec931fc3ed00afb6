package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"
)

const (
	CatalogKey      = "catalog.pdf"
	CatalogMetaKey  = "catalog.json"
	CatalogMIMEType = "application/pdf"

	defaultCatalogFileName = "catalog.pdf"
)

var ErrInvalidPayload = errors.New("invalid catalog payload")

var pdfMagic = []byte("%PDF-")

// CatalogMeta is the sidecar record stored next to the catalog file.
type CatalogMeta struct {
	LastUpdated time.Time `json:"lastUpdated"`
	FileName    string    `json:"fileName"`
	Path        string    `json:"path"`
	Size        int       `json:"size"`
}

// Catalog manages the single current catalog document.
type Catalog struct {
	store BlobStore
	now   func() time.Time
	// serializes upload/delete so the file and its sidecar change together
	mu sync.Mutex
}

func NewCatalog(store BlobStore) *Catalog {
	return &Catalog{store: store, now: time.Now}
}

// WithClock replaces the time source.
func (c *Catalog) WithClock(now func() time.Time) *Catalog {
	c.now = now
	return c
}

// Upload decodes a base64 payload (optionally a data URL), replaces the current
// catalog and writes the sidecar record.
func (c *Catalog) Upload(ctx context.Context, payload, fileName string) (*CatalogMeta, error) {
	data, err := DecodeDataURL(payload)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("%w: not a PDF document", ErrInvalidPayload)
	}

	fileName = path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))
	if fileName == "" || fileName == "." || fileName == "/" {
		fileName = defaultCatalogFileName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Put(ctx, CatalogKey, data, CatalogMIMEType); err != nil {
		return nil, fmt.Errorf("store catalog: %w", err)
	}

	meta := &CatalogMeta{
		LastUpdated: c.now().UTC(),
		FileName:    fileName,
		Path:        c.store.Location(CatalogKey),
		Size:        len(data),
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode catalog metadata: %w", err)
	}
	if err := c.store.Put(ctx, CatalogMetaKey, b, "application/json"); err != nil {
		return nil, fmt.Errorf("store catalog metadata: %w", err)
	}

	return meta, nil
}

// Meta returns the sidecar record or ErrNotFound.
func (c *Catalog) Meta(ctx context.Context) (*CatalogMeta, error) {
	b, err := c.store.Get(ctx, CatalogMetaKey)
	if err != nil {
		return nil, err
	}

	var meta CatalogMeta
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil, fmt.Errorf("decode catalog metadata: %w", err)
	}
	return &meta, nil
}

// Open returns the metadata and raw bytes of the current catalog, or ErrNotFound
// when either the sidecar or the file is missing.
func (c *Catalog) Open(ctx context.Context) (*CatalogMeta, []byte, error) {
	meta, err := c.Meta(ctx)
	if err != nil {
		return nil, nil, err
	}

	data, err := c.store.Get(ctx, CatalogKey)
	if err != nil {
		return nil, nil, err
	}
	return meta, data, nil
}

// CatalogStatus is the inline representation served to the admin UI.
type CatalogStatus struct {
	Catalog     *string    `json:"catalog"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
	FileName    string     `json:"fileName,omitempty"`
}

// Status returns the current catalog as a data URL with its metadata.
// A missing catalog yields a status with a nil Catalog.
func (c *Catalog) Status(ctx context.Context) (*CatalogStatus, error) {
	meta, data, err := c.Open(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &CatalogStatus{}, nil
		}
		return nil, err
	}

	encoded := "data:" + CatalogMIMEType + ";base64," + base64.StdEncoding.EncodeToString(data)
	updated := meta.LastUpdated
	return &CatalogStatus{Catalog: &encoded, LastUpdated: &updated, FileName: meta.FileName}, nil
}

// Delete removes the catalog and its sidecar. It returns ErrNotFound when
// neither exists.
func (c *Catalog) Delete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileErr := c.store.Delete(ctx, CatalogKey)
	metaErr := c.store.Delete(ctx, CatalogMetaKey)

	if errors.Is(fileErr, ErrNotFound) && errors.Is(metaErr, ErrNotFound) {
		return ErrNotFound
	}
	for _, err := range []error{fileErr, metaErr} {
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// DownloadName returns a cache-busting attachment name such as catalog-1767268800000.pdf.
func (c *Catalog) DownloadName() string {
	return fmt.Sprintf("catalog-%d.pdf", c.now().UTC().UnixMilli())
}

// DecodeDataURL decodes standard base64, accepting an optional "data:<mime>;base64," prefix.
func DecodeDataURL(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}

	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 || !strings.HasSuffix(payload[:idx], ";base64") {
			return nil, fmt.Errorf("%w: malformed data URL", ErrInvalidPayload)
		}
		payload = payload[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidPayload)
	}
	return data, nil
}
