package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultListenAddr   = ":8080"
	defaultDatabaseURL  = "washhub.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultMinioRegion  = "us-east-1"
	defaultBucketPrefix = "wash-tenant-"
	defaultPresignTTL   = "168h"
)

// Config is the injected value object for everything the service reads from
// the environment — no component reads env vars after startup.
type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string
	JWTSecret   string

	Minio struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Region    string
		UseSSL    bool
	}

	// BucketPrefix is prepended to the sanitized tenant id when deriving the
	// tenant's bucket name.
	BucketPrefix string
	PresignTTL   time.Duration

	CORSAllowedOrigins string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.Minio.Endpoint = strings.TrimSpace(os.Getenv("MINIO_ENDPOINT"))
	cfg.Minio.AccessKey = strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY"))
	cfg.Minio.SecretKey = strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY"))
	cfg.Minio.Region = getEnv("MINIO_REGION", defaultMinioRegion)
	cfg.Minio.UseSSL = parseBoolEnv("MINIO_USE_SSL", "false")

	cfg.BucketPrefix = getEnv("BUCKET_PREFIX", defaultBucketPrefix)
	cfg.CORSAllowedOrigins = os.Getenv("CORS_ALLOWED_ORIGINS")

	var err error
	cfg.PresignTTL, err = parseDurationEnv("PRESIGN_TTL", defaultPresignTTL)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Minio.Endpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT must not be empty")
	}
	if cfg.Minio.AccessKey == "" || cfg.Minio.SecretKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY must not be empty")
	}
	if cfg.PresignTTL <= 0 {
		return fmt.Errorf("PRESIGN_TTL must be positive")
	}
	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
