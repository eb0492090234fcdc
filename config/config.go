package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Open Food Facts catalog
	FoodFactsURL string

	// S3 photo storage
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment
// variables or secret files, depending on the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	switch env := GetEnvironment(); env {
	case CI, Test:
		loadEnvConfig(cfg)
	case Development, Production:
		loadSecretConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads everything from plain environment variables.
func loadEnvConfig(cfg *Config) {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.FoodFactsURL = os.Getenv("FOOD_FACTS_URL")
	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}
}

// loadSecretConfig reads from secret files under SECRETS_DIR (default
// /run/secrets), falling back to environment variables per key.
func loadSecretConfig(cfg *Config) {
	cfg.ServerPort = readSecret("server_port", "SERVER_PORT")
	cfg.ServerHost = readSecret("server_host", "SERVER_HOST")
	cfg.DBHost = readSecret("db_host", "DB_HOST")
	cfg.DBPort = readSecret("db_port", "DB_PORT")
	cfg.DBUser = readSecret("db_user", "DB_USER")
	cfg.DBPassword = readSecret("db_password", "DB_PASSWORD")
	cfg.DBName = readSecret("db_name", "DB_NAME")
	cfg.DBSSLMode = readSecret("db_ssl_mode", "DB_SSL_MODE")
	cfg.RedisHost = readSecret("redis_host", "REDIS_HOST")
	cfg.RedisPort = readSecret("redis_port", "REDIS_PORT")
	cfg.RedisPassword = readSecret("redis_password", "REDIS_PASSWORD")
	cfg.RedisURL = readSecret("redis_url", "REDIS_URL")
	cfg.JWTSecret = readSecret("jwt_secret", "JWT_SECRET")
	cfg.FoodFactsURL = readSecret("food_facts_url", "FOOD_FACTS_URL")
	cfg.S3Bucket = readSecret("s3_bucket_name", "S3_BUCKET_NAME")
	cfg.AWSRegion = readSecret("aws_region", "AWS_REGION")
	cfg.RedisDB = 0
}

func applyDefaults(cfg *Config) {
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}
	if cfg.RedisHost == "" {
		cfg.RedisHost = "localhost"
	}
	if cfg.RedisPort == "" {
		cfg.RedisPort = "6379"
	}
	if cfg.FoodFactsURL == "" {
		cfg.FoodFactsURL = "https://world.openfoodfacts.org"
	}
}

// readSecret reads a secret file from the secrets directory, falling
// back to the given environment variable.
func readSecret(name, envKey string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return os.Getenv(envKey)
}
