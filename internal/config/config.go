package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppEnv          string
	Port            string
	ShutdownTimeout time.Duration
	AdminRateLimit  int // admin requests per client per minute, 0 disables

	// Database (driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Snapshots
	JSONDataPath       string
	SnapshotOnStart    bool
	SnapshotOnShutdown bool
	SnapshotSchedule   string // cron spec, empty disables periodic export
	SnapshotMirrorDir  string
	SnapshotS3Prefix   string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.), optional snapshot mirror
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

// Load reads the configuration from the environment and an optional .env
// file. Invalid configuration terminates the process.
func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:          envString("APP_ENV", "development"),
		Port:            envString("PORT", "8090"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		AdminRateLimit:  envInt("ADMIN_RATE_LIMIT", 6),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/gymapp.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		JSONDataPath:       envString("JSON_DATA_PATH", "./reference_data"),
		SnapshotOnStart:    envBool("SNAPSHOT_ON_START", true),
		SnapshotOnShutdown: envBool("SNAPSHOT_ON_SHUTDOWN", true),
		SnapshotSchedule:   envString("SNAPSHOT_SCHEDULE", ""),
		SnapshotMirrorDir:  envString("SNAPSHOT_MIRROR_DIR", ""),
		SnapshotS3Prefix:   envString("SNAPSHOT_S3_PREFIX", "snapshots"),

		SentryDSN: envString("SENTRY_DSN", ""),

		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AppEnv {
	case "development", "production", "test":
	default:
		return fmt.Errorf("APP_ENV must be development, production or test, got %q", c.AppEnv)
	}

	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or pgx, got %q", c.DBDriver)
	}

	if c.JSONDataPath == "" {
		return fmt.Errorf("JSON_DATA_PATH must not be empty")
	}
	return nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
