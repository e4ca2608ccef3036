package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Events   EventsConfig   `yaml:"events"`
	Log      LogConfig      `yaml:"log"`
	Session  SessionConfig  `yaml:"session"`
	Theme    Theme          `yaml:"theme"`
}

// DatabaseConfig locates the SQLite store
type DatabaseConfig struct {
	Path string `yaml:"path"` // empty means ~/.opsboard/opsboard.db
}

// RedisConfig enables the read cache and live events. An empty Addr disables both.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// EventsConfig tunes event publishing
type EventsConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means ~/.opsboard/logs/opsboard.log
}

// SessionConfig holds the credentials the CLI acts with
type SessionConfig struct {
	Token        string `yaml:"token"`
	RefreshToken string `yaml:"refresh_token"`
	RefreshURL   string `yaml:"refresh_url"`
	ClientID     string `yaml:"client_id"`
}

const (
	defaultCacheTTL = 30 * time.Second
	defaultDebounce = 100 * time.Millisecond
	defaultLogLevel = "info"
)

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads config from the user's config directory, then applies
// environment overrides. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		// Return default config if we can't determine config path
		c := Default()
		c.applyEnv()
		return c, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads config from a specific file
func LoadFile(path string) (*Config, error) {
	c, err := readFile(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	return c, nil
}

// ClearSession removes stored credentials from the user's config file.
// Environment overrides are not written back.
func ClearSession() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	c, err := readFile(configPath)
	if err != nil {
		return err
	}
	c.Session.Token = ""
	c.Session.RefreshToken = ""
	return c.Save()
}

// readFile parses a config file and fills defaults, without env overrides
func readFile(path string) (*Config, error) {
	var c Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// Load theme from OPSBOARD_THEME_FILE if set
	loadThemeFile(&c)

	// Fill in any missing values with defaults
	c.applyDefaults()

	return &c, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Tokens live here, so keep the file private
	return os.WriteFile(configPath, data, 0o600)
}

// Path returns the path to the config file
func Path() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "opsboard", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "opsboard", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Redis.CacheTTL <= 0 {
		c.Redis.CacheTTL = defaultCacheTTL
	}
	if c.Events.Debounce <= 0 {
		c.Events.Debounce = defaultDebounce
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	c.Theme.ApplyDefaults()
}

// applyEnv lets OPSBOARD_* variables override the file
func (c *Config) applyEnv() {
	if v := os.Getenv("OPSBOARD_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("OPSBOARD_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("OPSBOARD_TOKEN"); v != "" {
		c.Session.Token = v
	}
	if v := os.Getenv("OPSBOARD_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// loadThemeFile loads and merges theme from OPSBOARD_THEME_FILE environment variable
func loadThemeFile(c *Config) {
	themeFile := os.Getenv("OPSBOARD_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme Theme `yaml:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		c.Theme.MergeFrom(themeConfig.Theme)
	}
}
