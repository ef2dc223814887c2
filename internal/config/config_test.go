package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear relevant env vars to test defaults
	envVars := []string{
		"DOOP_PORT", "DOOP_ENV", "DOOP_GRAPHVIZ_BIN",
		"DOOP_RENDER_TIMEOUT", "DOOP_WORKERS",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check defaults
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.GraphvizBin != "dot" {
		t.Errorf("GraphvizBin = %s, want dot", cfg.GraphvizBin)
	}
	if cfg.RenderTimeout != 30 {
		t.Errorf("RenderTimeout = %d, want 30", cfg.RenderTimeout)
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DOOP_PORT", "9000")
	t.Setenv("DOOP_ENV", "production")
	t.Setenv("DOOP_GRAPHVIZ_BIN", "/usr/local/bin/dot")
	t.Setenv("DOOP_RENDER_TIMEOUT", "60")
	t.Setenv("DOOP_WORKERS", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %s, want production", cfg.Env)
	}
	if cfg.GraphvizBin != "/usr/local/bin/dot" {
		t.Errorf("GraphvizBin mismatch")
	}
	if cfg.RenderTimeout != 60 {
		t.Errorf("RenderTimeout = %d, want 60", cfg.RenderTimeout)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{Port: 8080, RenderTimeout: 30, Workers: 0}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := &Config{Port: port, RenderTimeout: 30}
		if err := cfg.Validate(); err == nil {
			t.Errorf("Validate() with port %d should return error", port)
		}
	}
}

func TestValidate_BadRenderTimeout(t *testing.T) {
	cfg := &Config{Port: 8080, RenderTimeout: 0}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should return error when RenderTimeout is 0")
	}
}

func TestValidate_NegativeWorkers(t *testing.T) {
	cfg := &Config{Port: 8080, RenderTimeout: 30, Workers: -2}

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should return error when Workers is negative")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue string
		want         string
	}{
		{"returns env value", "TEST_VAR_1", "custom", "default", "custom"},
		{"returns default when empty", "TEST_VAR_2", "", "default", "default"},
		{"returns default when unset", "TEST_VAR_UNSET", "", "fallback", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%s, %s) = %s, want %s", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue int
		want         int
	}{
		{"returns parsed int", "TEST_INT_1", "42", 0, 42},
		{"returns default when empty", "TEST_INT_2", "", 100, 100},
		{"returns default when invalid", "TEST_INT_3", "not-a-number", 50, 50},
		{"handles negative numbers", "TEST_INT_4", "-10", 0, -10},
		{"handles zero", "TEST_INT_5", "0", 99, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt(%s, %d) = %d, want %d", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}
