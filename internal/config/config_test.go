package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_FILE", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/taskboard")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("FrontendURL = %q, want http://localhost:3000", cfg.FrontendURL)
	}
	if cfg.RateLimitRate != "100-S" {
		t.Errorf("RateLimitRate = %q, want 100-S", cfg.RateLimitRate)
	}
	if cfg.RateLimit {
		t.Error("RateLimit should default to false")
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("database_url: postgres://file/db\nserver_port: \"9090\"\nrate_limit: true\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("RATE_LIMIT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DatabaseURL != "postgres://file/db" {
		t.Errorf("DatabaseURL = %q, want file value", cfg.DatabaseURL)
	}
	// Environment wins over the file
	if cfg.ServerPort != "7070" {
		t.Errorf("ServerPort = %q, want 7070", cfg.ServerPort)
	}
	if !cfg.RateLimit {
		t.Error("RateLimit should be true from file")
	}
}

func TestLoadBoolParsing(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/taskboard")
			t.Setenv("CONFIG_FILE", "")
			t.Setenv("SERVER_DEBUG_MODE", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.ServerDebugMode != tt.want {
				t.Errorf("ServerDebugMode = %v for %q, want %v", cfg.ServerDebugMode, tt.value, tt.want)
			}
		})
	}
}
