package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/sitecms/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:           ":8080",
		JWTSecret:      "strongsecret",
		APITimeout:     5 * time.Second,
		DatabasePath:   "sitecms.db",
		UploadsDir:     "uploads",
		TokenDuration:  2 * time.Hour,
		MaxUploadBytes: 1 << 20,
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SITECMS_ADDR", "SITECMS_JWT_SECRET", "SITECMS_DATABASE_PATH", "SITECMS_UPLOADS_DIR",
		"SITECMS_ADMIN_USERNAME", "SITECMS_ADMIN_PASSWORD", "SITECMS_LOG_LEVEL", "SITECMS_ENV",
		"SITECMS_INIT_ON_START", "SITECMS_S3_ENDPOINT", "SITECMS_S3_ACCESS_KEY", "SITECMS_S3_SECRET_KEY",
		"SITECMS_S3_BUCKET",
	} {
		t.Setenv(k, "")
	}
	// keep a developer .env out of the picture
	t.Chdir(t.TempDir())
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	t.Setenv("SITECMS_ENV", "production")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	t.Setenv("SITECMS_ENV", "development")

	cfg := validConfig()
	cfg.JWTSecret = "supersecretkey"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Setenv("SITECMS_ENV", "")

	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{name: "EmptyDatabasePath", mutate: func(c *config.Config) { c.DatabasePath = "" }, want: "database_path"},
		{name: "EmptyUploadsDir", mutate: func(c *config.Config) { c.UploadsDir = "" }, want: "uploads_dir"},
		{name: "ZeroTimeout", mutate: func(c *config.Config) { c.APITimeout = 0 }, want: "timeout"},
		{name: "NegativeTokenDuration", mutate: func(c *config.Config) { c.TokenDuration = -time.Second }, want: "token_duration"},
		{name: "ZeroUploadLimit", mutate: func(c *config.Config) { c.MaxUploadBytes = 0 }, want: "max_upload_bytes"},
		{name: "UnknownLogLevel", mutate: func(c *config.Config) { c.LogLevel = "loud" }, want: "log_level"},
		{name: "S3WithoutBucket", mutate: func(c *config.Config) {
			c.Storage.S3 = config.S3Config{Endpoint: "http://minio:9000", AccessKey: "a", SecretKey: "s"}
		}, want: "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_S3ReplacesUploadsDir(t *testing.T) {
	cfg := validConfig()
	cfg.UploadsDir = ""
	cfg.Storage.S3 = config.S3Config{Endpoint: "http://minio:9000", AccessKey: "a", SecretKey: "s", Bucket: "site"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.JWTSecret != "supersecretkey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "supersecretkey")
	}
	if cfg.DatabasePath != "sitecms.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "sitecms.db")
	}
	if cfg.UploadsDir != "uploads" {
		t.Fatalf("unexpected UploadsDir: got %q", cfg.UploadsDir)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 15*time.Second)
	}
	if cfg.TokenDuration != 2*time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, 2*time.Hour)
	}
	if !cfg.InitOnStart {
		t.Fatalf("expected InitOnStart default true")
	}
	if cfg.MaxUploadBytes != 25<<20 {
		t.Fatalf("unexpected MaxUploadBytes: %d", cfg.MaxUploadBytes)
	}
	if cfg.Storage.S3.Enabled() {
		t.Fatalf("s3 must be disabled by default")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("SITECMS_ADDR", ":7000")
	t.Setenv("SITECMS_DATABASE_PATH", "/data/site.db")
	t.Setenv("SITECMS_INIT_ON_START", "false")
	t.Setenv("SITECMS_LOG_LEVEL", "debug")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7000" || cfg.DatabasePath != "/data/site.db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.InitOnStart {
		t.Fatalf("expected InitOnStart false from env")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("unexpected level %v", cfg.SlogLevel())
	}

	t.Setenv("SITECMS_INIT_ON_START", "maybe")
	if _, err := config.LoadConfig(""); err == nil {
		t.Fatalf("expected error for invalid SITECMS_INIT_ON_START")
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SITECMS_UPLOADS_DIR")
	t.Cleanup(func() { os.Unsetenv("SITECMS_UPLOADS_DIR") })

	if err := os.WriteFile(".env", []byte("SITECMS_UPLOADS_DIR=/srv/uploads\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.UploadsDir != "/srv/uploads" {
		t.Fatalf("expected .env value, got %q", cfg.UploadsDir)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("addr: \":9090\"\njwt_secret: \"filekey\"\ntimeout: \"30s\"\ndatabase_path: \"test.db\"\n" +
		"token_duration: \"1h\"\ninit_on_start: false\nstorage:\n  s3:\n    endpoint: \"http://minio:9000\"\n" +
		"    access_key: \"ak\"\n    secret_key: \"sk\"\n    bucket: \"site\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error for file: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":9090")
	}
	if cfg.JWTSecret != "filekey" {
		t.Fatalf("unexpected JWTSecret: got %q want %q", cfg.JWTSecret, "filekey")
	}
	if cfg.DatabasePath != "test.db" {
		t.Fatalf("unexpected DatabasePath: got %q want %q", cfg.DatabasePath, "test.db")
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected APITimeout: got %v want %v", cfg.APITimeout, 30*time.Second)
	}
	if cfg.TokenDuration != time.Hour {
		t.Fatalf("unexpected TokenDuration: got %v want %v", cfg.TokenDuration, time.Hour)
	}
	if cfg.InitOnStart {
		t.Fatalf("expected init_on_start false from file")
	}
	if !cfg.Storage.S3.Enabled() || cfg.Storage.S3.Bucket != "site" {
		t.Fatalf("unexpected s3 config: %+v", cfg.Storage.S3)
	}
}

func TestLoadConfig_BadPath(t *testing.T) {
	clearEnv(t)
	if _, err := config.LoadConfig("/path/that/does/not/exist.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent path, got nil")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("::: not yaml :::"), 0o600); err != nil {
		t.Fatalf("failed to write bad yaml: %v", err)
	}

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatalf("expected YAML decode error, got nil")
	}
}
