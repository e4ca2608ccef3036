package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, "opsboard")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OPSBOARD_DB", "OPSBOARD_REDIS_ADDR", "OPSBOARD_TOKEN", "OPSBOARD_LOG_LEVEL", "OPSBOARD_THEME_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Redis.CacheTTL != defaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.Redis.CacheTTL, defaultCacheTTL)
	}
	if cfg.Events.Debounce != defaultDebounce {
		t.Errorf("Debounce = %v, want %v", cfg.Events.Debounce, defaultDebounce)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log level = %s, want info", cfg.Log.Level)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis should be disabled by default, got %s", cfg.Redis.Addr)
	}
	if cfg.Theme.Accent != DefaultTheme().Accent {
		t.Errorf("Accent = %s, want default", cfg.Theme.Accent)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	writeConfig(t, dir, `database:
  path: /tmp/board.db
redis:
  addr: localhost:6379
  cache_ttl: 2m
events:
  debounce: 250ms
log:
  level: debug
session:
  token: abc
theme:
  preset: monochrome
  accent: "#123456"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/board.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.CacheTTL != 2*time.Minute {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Events.Debounce != 250*time.Millisecond {
		t.Errorf("Debounce = %v", cfg.Events.Debounce)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s", cfg.Log.Level)
	}
	if cfg.Session.Token != "abc" {
		t.Errorf("Session.Token = %s", cfg.Session.Token)
	}
	if cfg.Theme.Accent != "#123456" {
		t.Errorf("Accent = %s, want override", cfg.Theme.Accent)
	}
	if cfg.Theme.Title != MonochromeTheme().Title {
		t.Errorf("Title = %s, want monochrome preset", cfg.Theme.Title)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeConfig(t, dir, "database:\n  path: /from/file.db\n")

	t.Setenv("OPSBOARD_DB", "/from/env.db")
	t.Setenv("OPSBOARD_REDIS_ADDR", "redis:6379")
	t.Setenv("OPSBOARD_TOKEN", "env-token")
	t.Setenv("OPSBOARD_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Path != "/from/env.db" {
		t.Errorf("Database.Path = %s, want env override", cfg.Database.Path)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %s", cfg.Redis.Addr)
	}
	if cfg.Session.Token != "env-token" {
		t.Errorf("Session.Token = %s", cfg.Session.Token)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s", cfg.Log.Level)
	}
}

func TestInvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeConfig(t, dir, "redis: [unclosed")

	if _, err := Load(); err == nil {
		t.Error("Expected an error for invalid YAML")
	}
}

func TestThemeFileLoading(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	themePath := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(themePath, []byte("theme:\n  accent: \"#FF0000\"\n  success: \"#00FF00\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPSBOARD_THEME_FILE", themePath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Theme.Accent != "#FF0000" {
		t.Errorf("Expected accent to be #FF0000, got %s", cfg.Theme.Accent)
	}
	if cfg.Theme.Success != "#00FF00" {
		t.Errorf("Expected success to be #00FF00, got %s", cfg.Theme.Success)
	}
	if cfg.Theme.Error == "" {
		t.Error("Expected error color to have default value")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := Default()
	cfg.Redis.Addr = "cache:6379"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "opsboard", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %s after reload", loaded.Redis.Addr)
	}
}

func TestClearSession(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	writeConfig(t, dir, `
database:
  path: /srv/opsboard.db
session:
  token: stored-token
  refresh_token: stored-refresh
  refresh_url: https://id.example.com/token
`)
	t.Setenv("OPSBOARD_TOKEN", "env-token")
	t.Setenv("OPSBOARD_DB", "/from/env.db")

	if err := ClearSession(); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	t.Setenv("OPSBOARD_TOKEN", "")
	t.Setenv("OPSBOARD_DB", "")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.Token != "" || cfg.Session.RefreshToken != "" {
		t.Errorf("session not cleared: %+v", cfg.Session)
	}
	if cfg.Session.RefreshURL != "https://id.example.com/token" {
		t.Errorf("RefreshURL = %q, want it kept", cfg.Session.RefreshURL)
	}
	if cfg.Database.Path != "/srv/opsboard.db" {
		t.Errorf("Database.Path = %q, env override leaked into the file", cfg.Database.Path)
	}
}
