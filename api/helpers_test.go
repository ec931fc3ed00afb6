package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/sitecms/api"
	dbfs "github.com/garnizeh/sitecms/db"
	"github.com/garnizeh/sitecms/internal/assets"
	"github.com/garnizeh/sitecms/internal/config"
	"github.com/garnizeh/sitecms/internal/db"
	"github.com/garnizeh/sitecms/internal/repository/sqlite"
	"github.com/garnizeh/sitecms/internal/schema"
)

const (
	testSecret   = "testsecret"
	testAdmin    = "admin"
	testPassword = "s3cret"
)

type testEnv struct {
	router http.Handler
	repo   *sqlite.SQLiteRepo
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, &config.Config{
		JWTSecret:      testSecret,
		TokenDuration:  time.Hour,
		MaxUploadBytes: 1 << 20,
	})
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	repo := sqlite.New(d, nil)
	initializer := schema.New(d, repo, dbfs.Migrations, dbfs.SeedFiles, testAdmin, testPassword, nil)
	if err := initializer.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	store, err := assets.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	router := api.SetupRoutes(cfg, "test", "now", d, assets.NewCatalog(store), initializer)
	return &testEnv{router: router, repo: repo, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	case []byte:
		rdr = bytes.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth", "", map[string]string{"username": testAdmin, "password": testPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatalf("login: empty token")
	}
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d got %d: %s", want, w.Code, w.Body.String())
	}
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var m struct {
		Message string `json:"message"`
	}
	decode(t, w, &m)
	return m.Message
}
