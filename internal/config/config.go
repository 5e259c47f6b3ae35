// Package config handles the XDG configuration directory, config.toml and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "duelist"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Seed source names.
const (
	SourcePlaceholder = "placeholder"
	SourceGoogleTasks = "googletasks"
	SourceNone        = "none"
)

// Defaults.
const (
	DefaultStorageBackend = "file"
	DefaultStorageKey     = "tasks"
	DefaultSeedURL        = "https://jsonplaceholder.typicode.com/todos"
	DefaultSeedTarget     = 5
	DefaultSeedTimeout    = 5
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	Storage StorageConfig `toml:"storage"`
	Tasks   TasksConfig   `toml:"tasks"`
	Seed    SeedConfig    `toml:"seed"`
}

// StorageConfig selects where the task collection is kept.
type StorageConfig struct {
	Backend string `toml:"backend"` // file or sqlite
	Key     string `toml:"key"`
}

// TasksConfig holds validation settings for new tasks.
type TasksConfig struct {
	RequireDueDate bool `toml:"require_due_date"`
}

// SeedConfig controls first-run sample tasks.
type SeedConfig struct {
	Enabled        bool   `toml:"enabled"`
	Source         string `toml:"source"` // placeholder, googletasks or none
	URL            string `toml:"url"`
	Target         int    `toml:"target"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// New creates a new Config with defaults and the default or specified config
// directory. It does not read config.toml.
// If configDir is empty, uses XDG_CONFIG_HOME/duelist or $HOME/.config/duelist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	setDefaults(cfg)
	return cfg, nil
}

// Load is New followed by config.toml (when present) and environment
// overrides.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := loadConfigFile(cfg, cfg.FilePath()); err != nil {
		return nil, err
	}
	loadFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Storage.Backend = DefaultStorageBackend
	cfg.Storage.Key = DefaultStorageKey
	cfg.Tasks.RequireDueDate = true
	cfg.Seed.Enabled = true
	cfg.Seed.Source = SourcePlaceholder
	cfg.Seed.URL = DefaultSeedURL
	cfg.Seed.Target = DefaultSeedTarget
	cfg.Seed.TimeoutSeconds = DefaultSeedTimeout
}

// loadConfigFile decodes path over cfg. A missing file is not an error.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DUELIST_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("DUELIST_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("DUELIST_SEED_SOURCE"); v != "" {
		cfg.Seed.Source = v
	}
	if v := os.Getenv("DUELIST_SEED_URL"); v != "" {
		cfg.Seed.URL = v
	}
	if v := os.Getenv("DUELIST_SEED_ENABLED"); v != "" {
		cfg.Seed.Enabled = boolFromString(v)
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		s = strings.ToLower(strings.TrimSpace(s))
		return s == "yes" || s == "on"
	}
	return b
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("storage key is empty")
	}
	switch c.Seed.Source {
	case SourcePlaceholder, SourceGoogleTasks, SourceNone:
	default:
		return fmt.Errorf("unknown seed source: %s", c.Seed.Source)
	}
	if c.Seed.Target < 0 {
		return fmt.Errorf("seed target must not be negative")
	}
	return nil
}

// SeedTimeout returns the bound on a single seed fetch.
func (c *Config) SeedTimeout() time.Duration {
	if c.Seed.TimeoutSeconds <= 0 {
		return DefaultSeedTimeout * time.Second
	}
	return time.Duration(c.Seed.TimeoutSeconds) * time.Second
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
