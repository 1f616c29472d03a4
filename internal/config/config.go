// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the
// application. A .env file in the working directory is loaded first when
// present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (optional — backs the shared rate limiter)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Generation provider (OpenAI-compatible; OpenRouter by default)
	AIAPIKey     string
	AIBaseURL    string
	AIImageModel string
	AITextModel  string
	AIReferer    string
	AITitle      string

	// S3-compatible object storage (optional — local disk fallback)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Local upload storage directory (used when S3 is not configured)
	UploadDir string

	// Auth
	JWTSecret string

	// Rate limiting for the generation endpoints
	RateLimit  int
	RateWindow time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "babymorph"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "babymorph"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     envOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AIAPIKey:     os.Getenv("OPENROUTER_API_KEY"),
		AIBaseURL:    os.Getenv("AI_BASE_URL"),
		AIImageModel: os.Getenv("AI_IMAGE_MODEL"),
		AITextModel:  os.Getenv("AI_TEXT_MODEL"),
		AIReferer:    os.Getenv("AI_HTTP_REFERER"),
		AITitle:      envOrDefault("AI_APP_TITLE", "BabyMorph"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "babymorph"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		UploadDir: envOrDefault("UPLOAD_DIR", "uploads"),

		JWTSecret: envOrDefault("JWT_SECRET", "dev-secret-change-me"),

		RateLimit:  envIntOrDefault("RATE_LIMIT", 10),
		RateWindow: envDurationOrDefault("RATE_WINDOW", time.Minute),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.JWTSecret == "dev-secret-change-me" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if cfg.AIAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasRedis reports whether a Redis host is configured.
func (c *Config) HasRedis() bool {
	return c.RedisHost != ""
}

// HasS3 reports whether S3 object storage is configured.
func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
