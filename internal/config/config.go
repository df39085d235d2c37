package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort  string        `yaml:"server_port"`
	DatabaseURL string        `yaml:"database_url"`
	RedisURL    string        `yaml:"redis_url"`
	JWTSecret   string        `yaml:"jwt_secret"`
	JWTExpiry   time.Duration `yaml:"jwt_expiry"`

	// Interval between SSE heartbeat comments. Configurable so handler
	// tests can shrink it.
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`

	// Interval between background due-date sweeps.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	LogLevel  string `yaml:"log_level"`
	AIEnabled bool   `yaml:"ai_enabled"`
}

// LoadConfig builds configuration from the environment, layered on top of an
// optional YAML file named by BOARDSYNC_CONFIG. Env always wins over the file.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:        "8080",
		JWTExpiry:         24 * time.Hour,
		HeartbeatInterval: 30 * time.Second,
		SweepInterval:     5 * time.Minute,
		LogLevel:          "info",
	}

	if path := os.Getenv("BOARDSYNC_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.HeartbeatInterval <= 0 {
		return nil, errors.New("heartbeat interval must be positive")
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		expiry, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid JWT_EXPIRY format")
		}
		cfg.JWTExpiry = expiry
	}
	if v := os.Getenv("SSE_HEARTBEAT_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid SSE_HEARTBEAT_INTERVAL format")
		}
		cfg.HeartbeatInterval = interval
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("invalid SWEEP_INTERVAL format")
		}
		cfg.SweepInterval = interval
	}
	if v := os.Getenv("AI_ENABLED"); v != "" {
		cfg.AIEnabled = v == "true" || v == "1"
	}

	return nil
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
