// Package config provides centralized configuration for JobTrack runtime values.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/manav03panchal/jobtrack/internal/storage"
)

// Environment variable names.
const (
	EnvDatabase    = "JOBTRACK_DATABASE"
	EnvServerAddr  = "JOBTRACK_SERVER_ADDR"
	EnvDatabaseURL = "JOBTRACK_DATABASE_URL"
	EnvJWTSecret   = "JOBTRACK_JWT_SECRET"
	EnvHTTPTimeout = "JOBTRACK_HTTP_TIMEOUT"
	EnvCORSOrigins = "JOBTRACK_CORS_ORIGINS"
	EnvTokenTTL    = "JOBTRACK_TOKEN_TTL"
)

// MemoryDatabase selects an in-memory local store.
const MemoryDatabase = ":memory:"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	// Storage configuration
	Storage StorageConfig

	// HTTP client configuration
	HTTP HTTPConfig

	// API server configuration
	Server ServerConfig
}

// StorageConfig holds local storage configuration.
type StorageConfig struct {
	// Path is the badger directory.
	// Default: $XDG_DATA_HOME/jobtrack/db
	Path string

	// InMemory keeps everything in memory; nothing survives the process.
	InMemory bool
}

// HTTPConfig holds API client configuration.
type HTTPConfig struct {
	// Timeout bounds a single API call.
	// Default: 15s
	Timeout time.Duration
}

// ServerConfig holds API server configuration.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: :8080
	Addr string

	// DatabaseURL is the postgres DSN. Empty keeps records in memory.
	DatabaseURL string

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string

	// CORSOrigins lists allowed browser origins. Empty allows any.
	CORSOrigins []string

	// TokenTTL is the lifetime of minted tokens. Zero never expires.
	// Default: 720h
	TokenTTL time.Duration
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Storage: StorageConfig{
			Path: storage.DefaultPath(),
		},
		HTTP: HTTPConfig{
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			TokenTTL: 30 * 24 * time.Hour,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults and can be overridden via environment variables.
var Global = initGlobal()

// initGlobal initializes the global config with defaults and environment overrides.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none
// are given) into the environment. Variables that are already set win.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	// Storage configuration
	if v := os.Getenv(EnvDatabase); v != "" {
		if v == MemoryDatabase {
			c.Storage.InMemory = true
			c.Storage.Path = ""
		} else {
			c.Storage.InMemory = false
			c.Storage.Path = v
		}
	}

	// HTTP configuration
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}

	// Server configuration
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Server.DatabaseURL = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.Server.CORSOrigins = splitOrigins(v)
	}
	if v := os.Getenv(EnvTokenTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.Server.TokenTTL = d
		}
	}
}

// splitOrigins parses a comma separated origin list, dropping entries that
// are not http(s) origins.
func splitOrigins(v string) []string {
	var out []string
	for _, o := range strings.Split(v, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" || strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://") {
			out = append(out, o)
		}
	}
	return out
}

// ReloadFromEnv reloads configuration from environment variables.
// This is useful for testing or when environment variables change.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset resets the configuration to defaults.
// This is primarily useful for testing.
func (c *RuntimeConfig) Reset() {
	defaults := DefaultRuntimeConfig()
	*c = *defaults
}
