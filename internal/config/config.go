// ABOUTME: Configuration loader for the progress client
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// HomeMode controls what unauthenticated users see at the home route
type HomeMode string

const (
	// HomeLanding shows the public landing view
	HomeLanding HomeMode = "landing"
	// HomeLogin redirects straight to the login view
	HomeLogin HomeMode = "login"
)

const (
	defaultAPIURL = "http://localhost:5001"
	appDirName    = "progress"
)

type Config struct {
	// API
	APIURL      string
	HTTPTimeout time.Duration

	// Local state
	ConfigDir   string        // holds session.json, recent.json, progress.log
	TokenLeeway time.Duration // refresh access tokens this long before exp

	// Routing
	HomeMode HomeMode

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	cfg := &Config{
		APIURL:      strings.TrimRight(ensureScheme(getEnv("PROGRESS_API_URL", defaultAPIURL)), "/"),
		HTTPTimeout: time.Duration(getEnvInt("PROGRESS_HTTP_TIMEOUT", 30)) * time.Second,
		ConfigDir:   getEnv("PROGRESS_CONFIG_DIR", DefaultConfigDir()),
		TokenLeeway: time.Duration(getEnvInt("PROGRESS_TOKEN_LEEWAY", 30)) * time.Second,
		HomeMode:    HomeMode(strings.ToLower(getEnv("PROGRESS_HOME", string(HomeLanding)))),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that cannot be defaulted silently
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("PROGRESS_API_URL is required")
	}
	if c.HomeMode != HomeLanding && c.HomeMode != HomeLogin {
		return fmt.Errorf("PROGRESS_HOME must be landing or login, got %q", c.HomeMode)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("PROGRESS_HTTP_TIMEOUT must be positive")
	}
	if c.TokenLeeway < 0 {
		return fmt.Errorf("PROGRESS_TOKEN_LEEWAY must not be negative")
	}
	return nil
}

// DefaultConfigDir returns the default config directory following the XDG base directory layout
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
