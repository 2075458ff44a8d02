package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string `yaml:"database_url"`
	ServerPort      string `yaml:"server_port"`
	BaseURL         string `yaml:"base_url"`
	FrontendURL     string `yaml:"frontend_url"`
	EnableHSTS      bool   `yaml:"enable_hsts"`
	RedisURL        string `yaml:"redis_url"`
	RateLimitRate   string `yaml:"rate_limit_rate"`
	RateLimit       bool   `yaml:"rate_limit"`
	ServerDebugMode bool   `yaml:"server_debug_mode"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
}

// Load loads configuration from an optional YAML file (CONFIG_FILE) with
// environment variables taking precedence over file values.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    "8080",
		BaseURL:       "http://localhost:8080",
		FrontendURL:   "http://localhost:3000",
		RedisURL:      "redis://localhost:6379/0",
		RateLimitRate: "100-S",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg.DatabaseURL, "DATABASE_URL")
	applyEnv(&cfg.ServerPort, "SERVER_PORT")
	applyEnv(&cfg.BaseURL, "BASE_URL")
	applyEnv(&cfg.FrontendURL, "FRONTEND_URL")
	applyEnvBool(&cfg.EnableHSTS, "ENABLE_HSTS")
	applyEnv(&cfg.RedisURL, "REDIS_URL")
	applyEnv(&cfg.RateLimitRate, "RATE_LIMIT_RATE")
	applyEnvBool(&cfg.RateLimit, "RATE_LIMIT")
	applyEnvBool(&cfg.ServerDebugMode, "SERVER_DEBUG_MODE")
	applyEnvBool(&cfg.OTELEnabled, "OTEL_ENABLED")
	applyEnv(&cfg.OTELEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func applyEnvBool(dst *bool, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value == "true" || value == "1" || value == "yes"
	}
}
