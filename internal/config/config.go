package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Groq    GroqConfig
	Archive ArchiveConfig
	Demo    DemoConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. Redis is optional; when
// Host is empty the report cache is disabled.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GroqConfig contains credentials and tuning for the Groq generative service.
type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ArchiveConfig contains S3-compatible storage settings for rendered report
// documents. Archive upload is disabled when AccessKeyID is empty. Endpoint
// is a bare host for S3-compatible stores; leave it empty for AWS
// virtual-host addressing.
type ArchiveConfig struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// DemoConfig identifies the implicit demo user that owns unauthenticated
// submissions.
type DemoConfig struct {
	Username string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis (optional)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Groq generative service
	cfg.Groq = GroqConfig{
		APIKey:  getEnv("GROQ_API_KEY", ""),
		Model:   getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
	}
	var err error
	if cfg.Groq.Timeout, err = parseDurationEnv("GROQ_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid GROQ_TIMEOUT: %w", err)
	}

	// Report archive (optional, S3-compatible)
	cfg.Archive = ArchiveConfig{
		Region:          getEnv("ARCHIVE_REGION", "ap-southeast-3"),
		Bucket:          getEnv("ARCHIVE_BUCKET", "altibbe-reports"),
		Endpoint:        getEnv("ARCHIVE_ENDPOINT", ""),
		AccessKeyID:     getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("ARCHIVE_SECRET_ACCESS_KEY", ""),
	}

	// Demo user for unauthenticated callers
	cfg.Demo = DemoConfig{
		Username: getEnv("DEMO_USERNAME", "demo-user"),
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for token signing")
	}

	if cfg.Groq.APIKey == "" {
		return nil, errors.New("GROQ_API_KEY must be set for question generation and scoring")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
