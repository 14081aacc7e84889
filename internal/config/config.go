// Package config loads the process configuration from the environment once
// at startup. The resulting Config is treated as immutable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds settings shared by autopost and autopostd.
type Config struct {
	// Storage
	DataDir string

	// Daemon
	SocketPath   string
	SyncInterval time.Duration
	MetricsAddr  string

	// Admin API
	APIURL     string
	APIToken   string
	APIRate    float64
	APITimeout time.Duration

	// Session fallback when APIToken is empty
	SessionBrowser    string
	SessionCookieFile string
	SessionCookie     string
	SessionDomain     string

	// Logging
	LogLevel string
}

// Load reads Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	dataDir, err := defaultDataDir()
	if err != nil {
		return nil, err
	}

	cfg.DataDir = getEnvString("AUTOPOST_DATA_DIR", dataDir)
	cfg.SocketPath = getEnvString("AUTOPOST_SOCKET", DefaultSocketPath())
	cfg.SyncInterval = getEnvDuration("AUTOPOST_SYNC_INTERVAL", 0)
	cfg.MetricsAddr = getEnvString("AUTOPOST_METRICS_ADDR", "")

	cfg.APIURL = strings.TrimRight(getEnvString("AUTOPOST_API_URL", "http://localhost:8000"), "/")
	cfg.APIToken = getEnvString("AUTOPOST_API_TOKEN", "")
	cfg.APIRate = getEnvFloat("AUTOPOST_API_RATE", 5)
	cfg.APITimeout = getEnvDuration("AUTOPOST_API_TIMEOUT", 10*time.Second)

	cfg.SessionBrowser = getEnvString("AUTOPOST_SESSION_BROWSER", "")
	cfg.SessionCookieFile = getEnvString("AUTOPOST_SESSION_COOKIE_FILE", "")
	cfg.SessionCookie = getEnvString("AUTOPOST_SESSION_COOKIE", "access_token")
	cfg.SessionDomain = getEnvString("AUTOPOST_SESSION_DOMAIN", "")

	cfg.LogLevel = getEnvString("AUTOPOST_LOG_LEVEL", "info")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		problems = append(problems, "AUTOPOST_API_URL must start with http:// or https://")
	}
	if c.APIRate <= 0 {
		problems = append(problems, "AUTOPOST_API_RATE must be positive")
	}
	if c.SyncInterval < 0 {
		problems = append(problems, "AUTOPOST_SYNC_INTERVAL must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SessionDomainOrHost returns SessionDomain, or the API host when unset.
func (c *Config) SessionDomainOrHost() string {
	if c.SessionDomain != "" {
		return c.SessionDomain
	}
	host := strings.TrimPrefix(strings.TrimPrefix(c.APIURL, "https://"), "http://")
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	return host
}

// DefaultSocketPath returns the socket path under XDG_RUNTIME_DIR.
func DefaultSocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}
	return filepath.Join(runtimeDir, "autopost.sock")
}

func defaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "autopost"), nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
