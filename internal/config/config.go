package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	insecureJWTSecret     = "supersecretkey"
	defaultMaxUploadBytes = 25 << 20
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	UploadsDir     string        `yaml:"uploads_dir"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	AdminUsername  string        `yaml:"admin_username"`
	AdminPassword  string        `yaml:"admin_password"`
	LogLevel       string        `yaml:"log_level"`
	InitOnStart    bool          `yaml:"init_on_start"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	Storage        StorageConfig `yaml:"storage"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config enables the S3-compatible catalog store when endpoint and
// credentials are all set.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// LoadConfig builds the configuration from defaults, the environment (an
// optional .env file included) and finally the YAML file at path, if any.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("SITECMS_ADDR", ":8080"),
		JWTSecret:      getEnv("SITECMS_JWT_SECRET", insecureJWTSecret),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("SITECMS_DATABASE_PATH", "sitecms.db"),
		UploadsDir:     getEnv("SITECMS_UPLOADS_DIR", "uploads"),
		TokenDuration:  2 * time.Hour,
		AdminUsername:  getEnv("SITECMS_ADMIN_USERNAME", "admin"),
		AdminPassword:  getEnv("SITECMS_ADMIN_PASSWORD", "admin123"),
		LogLevel:       getEnv("SITECMS_LOG_LEVEL", "info"),
		InitOnStart:    true,
		MaxUploadBytes: defaultMaxUploadBytes,
		Storage: StorageConfig{S3: S3Config{
			Endpoint:  os.Getenv("SITECMS_S3_ENDPOINT"),
			Region:    os.Getenv("SITECMS_S3_REGION"),
			AccessKey: os.Getenv("SITECMS_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("SITECMS_S3_SECRET_KEY"),
			Bucket:    os.Getenv("SITECMS_S3_BUCKET"),
			Prefix:    os.Getenv("SITECMS_S3_PREFIX"),
		}},
	}
	if v := os.Getenv("SITECMS_INIT_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SITECMS_INIT_ON_START: %w", err)
		}
		cfg.InitOnStart = b
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks required values. The built-in JWT secret is only accepted
// when SITECMS_ENV=development.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == insecureJWTSecret && os.Getenv("SITECMS_ENV") != "development" {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set SITECMS_JWT_SECRET or SITECMS_ENV=development"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}
	if c.UploadsDir == "" && !c.Storage.S3.Enabled() {
		errs = append(errs, errors.New("uploads_dir is required without s3 storage"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if c.Storage.S3.Enabled() && c.Storage.S3.Bucket == "" {
		errs = append(errs, errors.New("storage.s3.bucket is required when s3 is configured"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
