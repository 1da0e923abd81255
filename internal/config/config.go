package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard server
type Config struct {
	// Listen address for the HTTP server
	ListenAddr string `validate:"required"`

	// Upstream admin API
	API APIConfig

	// Session gate configuration
	Gate GateConfig

	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Cookie / browser configuration
	HTTP HTTPConfig

	// Audit log retention
	Audit AuditConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the REST API the dashboard fronts
type APIConfig struct {
	BaseURL string `validate:"required,url"`
}

// GateConfig holds session gate deployment constants
type GateConfig struct {
	FallbackEmail     string        `validate:"omitempty,email"`
	DirectoryTimeout  time.Duration `validate:"gt=0"`
	DirectoryRetries  int           `validate:"gte=0,lte=3"`
	AllowListCacheTTL time.Duration `validate:"gte=0"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `validate:"required"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port); empty keeps the allow-list cache in memory
}

// HTTPConfig holds cookie and CORS settings
type HTTPConfig struct {
	CookieSecure bool
	CORSOrigins  []string
}

// AuditConfig holds gate event retention settings
type AuditConfig struct {
	Retention     time.Duration `validate:"gt=0"`
	PurgeSchedule string        `validate:"required"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string `validate:"oneof=json console"` // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	timeout, err := durationEnv("DIRECTORY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	retries, err := intEnv("DIRECTORY_RETRIES", 1)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationEnv("ALLOWLIST_CACHE_TTL", 0)
	if err != nil {
		return nil, err
	}
	retention, err := durationEnv("AUDIT_RETENTION", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cookieSecure, err := boolEnv("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr: stringEnv("LISTEN_ADDR", ":3000"),
		API: APIConfig{
			BaseURL: strings.TrimRight(stringEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		},
		Gate: GateConfig{
			FallbackEmail:     strings.TrimSpace(os.Getenv("FALLBACK_ADMIN_EMAIL")),
			DirectoryTimeout:  timeout,
			DirectoryRetries:  retries,
			AllowListCacheTTL: cacheTTL,
		},
		Database: DatabaseConfig{
			URL: stringEnv("DATABASE_URL", "manas-admin.sqlite"),
		},
		Redis: RedisConfig{
			Address: os.Getenv("REDIS_ADDRESS"),
		},
		HTTP: HTTPConfig{
			CookieSecure: cookieSecure,
			CORSOrigins:  listEnv("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Audit: AuditConfig{
			Retention:     retention,
			PurgeSchedule: stringEnv("AUDIT_PURGE_SCHEDULE", "@hourly"),
		},
		Logging: LoggingConfig{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(stringEnv("LOG_FORMAT", "json")),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func listEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
