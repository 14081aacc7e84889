package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	for _, key := range []string{
		"AUTOPOST_DATA_DIR", "AUTOPOST_SOCKET", "AUTOPOST_SYNC_INTERVAL", "AUTOPOST_METRICS_ADDR",
		"AUTOPOST_API_URL", "AUTOPOST_API_TOKEN", "AUTOPOST_API_RATE", "AUTOPOST_API_TIMEOUT",
		"AUTOPOST_SESSION_COOKIE", "AUTOPOST_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != filepath.Join(home, ".local", "share", "autopost") {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.SocketPath != "/run/user/1000/autopost.sock" {
		t.Errorf("SocketPath = %s", cfg.SocketPath)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL = %s", cfg.APIURL)
	}
	if cfg.APIRate != 5 || cfg.APITimeout != 10*time.Second {
		t.Errorf("API rate/timeout = %v/%v", cfg.APIRate, cfg.APITimeout)
	}
	if cfg.SyncInterval != 0 {
		t.Errorf("SyncInterval = %v, want disabled", cfg.SyncInterval)
	}
	if cfg.SessionCookie != "access_token" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTOPOST_DATA_DIR", "/tmp/autopost")
	t.Setenv("AUTOPOST_API_URL", "https://api.autopost.example/")
	t.Setenv("AUTOPOST_SYNC_INTERVAL", "15m")
	t.Setenv("AUTOPOST_API_RATE", "0.5")
	t.Setenv("AUTOPOST_API_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/tmp/autopost" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.APIURL != "https://api.autopost.example" {
		t.Errorf("APIURL = %s, want trailing slash trimmed", cfg.APIURL)
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("SyncInterval = %v", cfg.SyncInterval)
	}
	if cfg.APIRate != 0.5 {
		t.Errorf("APIRate = %v", cfg.APIRate)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("invalid duration should fall back to default, got %v", cfg.APITimeout)
	}
	if cfg.SessionDomainOrHost() != "api.autopost.example" {
		t.Errorf("SessionDomainOrHost = %s", cfg.SessionDomainOrHost())
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("AUTOPOST_API_URL", "ftp://nope")
	t.Setenv("AUTOPOST_API_RATE", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "AUTOPOST_API_URL") || !strings.Contains(err.Error(), "AUTOPOST_API_RATE") {
		t.Errorf("error should name both variables: %v", err)
	}
}

func TestSessionDomainOrHost(t *testing.T) {
	cfg := &Config{APIURL: "http://localhost:8000/api"}
	if got := cfg.SessionDomainOrHost(); got != "localhost" {
		t.Errorf("got %s, want localhost", got)
	}

	cfg.SessionDomain = "autopost.app"
	if got := cfg.SessionDomainOrHost(); got != "autopost.app" {
		t.Errorf("got %s, want autopost.app", got)
	}
}
