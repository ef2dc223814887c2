package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port int
	Env  string

	// Graphviz
	GraphvizBin   string
	RenderTimeout int // seconds

	// Compilation
	Workers int // parallel parse width; 0 means one per CPU
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnvInt("DOOP_PORT", 8080),
		Env:           getEnv("DOOP_ENV", "development"),
		GraphvizBin:   getEnv("DOOP_GRAPHVIZ_BIN", "dot"),
		RenderTimeout: getEnvInt("DOOP_RENDER_TIMEOUT", 30),
		Workers:       getEnvInt("DOOP_WORKERS", 0),
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("DOOP_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.RenderTimeout < 1 {
		return fmt.Errorf("DOOP_RENDER_TIMEOUT must be at least 1 second, got %d", c.RenderTimeout)
	}
	if c.Workers < 0 {
		return fmt.Errorf("DOOP_WORKERS must not be negative, got %d", c.Workers)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
