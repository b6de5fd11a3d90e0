package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()

	if cfg.Storage.Path == "" {
		t.Error("expected a default storage path")
	}
	if cfg.Storage.InMemory {
		t.Error("expected on-disk storage by default")
	}
	if cfg.HTTP.Timeout != 15*time.Second {
		t.Errorf("expected HTTP.Timeout = 15s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Server.Addr = :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Server.TokenTTL != 720*time.Hour {
		t.Errorf("expected Server.TokenTTL = 720h, got %v", cfg.Server.TokenTTL)
	}
	if cfg.Server.JWTSecret != "" || cfg.Server.DatabaseURL != "" {
		t.Error("expected no secrets by default")
	}
}

func TestGlobalConfigExists(t *testing.T) {
	if Global == nil {
		t.Fatal("Global config should not be nil")
	}
}

func TestConfigReset(t *testing.T) {
	Global.HTTP.Timeout = 1 * time.Second

	Global.Reset()

	if Global.HTTP.Timeout != 15*time.Second {
		t.Errorf("expected HTTP.Timeout = 15s after reset, got %v", Global.HTTP.Timeout)
	}
}

func TestConfigLoadFromEnv(t *testing.T) {
	t.Setenv(EnvHTTPTimeout, "45s")
	t.Setenv(EnvServerAddr, "127.0.0.1:9090")
	t.Setenv(EnvJWTSecret, "0123456789abcdef")
	t.Setenv(EnvDatabaseURL, "postgres://jobtrack@db/jobtrack")
	t.Setenv(EnvCORSOrigins, "https://a.example.com, https://b.example.com/ ,ftp://nope")
	t.Setenv(EnvTokenTTL, "0s")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	if cfg.HTTP.Timeout != 45*time.Second {
		t.Errorf("expected HTTP.Timeout = 45s from env, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("expected Server.Addr from env, got %q", cfg.Server.Addr)
	}
	if cfg.Server.JWTSecret != "0123456789abcdef" {
		t.Errorf("expected JWT secret from env")
	}
	if cfg.Server.DatabaseURL != "postgres://jobtrack@db/jobtrack" {
		t.Errorf("expected database URL from env, got %q", cfg.Server.DatabaseURL)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.TokenTTL != 0 {
		t.Errorf("expected TokenTTL = 0 from env, got %v", cfg.Server.TokenTTL)
	}
}

func TestConfigDatabaseSelection(t *testing.T) {
	t.Setenv(EnvDatabase, MemoryDatabase)
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	if !cfg.Storage.InMemory || cfg.Storage.Path != "" {
		t.Errorf("expected in-memory storage, got %+v", cfg.Storage)
	}

	t.Setenv(EnvDatabase, "/tmp/jobtrack-db")
	cfg.loadFromEnv()
	if cfg.Storage.InMemory || cfg.Storage.Path != "/tmp/jobtrack-db" {
		t.Errorf("expected on-disk storage, got %+v", cfg.Storage)
	}
}

func TestConfigLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv(EnvHTTPTimeout, "invalid")
	t.Setenv(EnvTokenTTL, "-1h")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	if cfg.HTTP.Timeout != 15*time.Second {
		t.Errorf("expected HTTP.Timeout = 15s (default), got %v", cfg.HTTP.Timeout)
	}
	if cfg.Server.TokenTTL != 720*time.Hour {
		t.Errorf("expected TokenTTL = 720h (default), got %v", cfg.Server.TokenTTL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("JOBTRACK_SERVER_ADDR=:7070\nJOBTRACK_JWT_SECRET=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvJWTSecret, "from-env")
	t.Setenv(EnvServerAddr, "")
	os.Unsetenv(EnvServerAddr)

	if err := LoadDotEnv(file, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if got := os.Getenv(EnvServerAddr); got != ":7070" {
		t.Errorf("expected value from .env, got %q", got)
	}
	if got := os.Getenv(EnvJWTSecret); got != "from-env" {
		t.Errorf("expected environment to win, got %q", got)
	}
}
