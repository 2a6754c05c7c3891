// Package config handles the cmdvault configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the cmdvault configuration.
type Config struct {
	// Catalog is a YAML catalog used instead of the built-in one when a
	// vault is seeded or reset.
	Catalog string `toml:"catalog"`

	Database DatabaseConfig `toml:"database"`
	Search   SearchConfig   `toml:"search"`
	Template TemplateConfig `toml:"template"`
	Display  DisplayConfig  `toml:"display"`
	Flow     FlowConfig     `toml:"flow"`
	Log      LogConfig      `toml:"log"`
}

type DatabaseConfig struct {
	// Path of the vault file. Empty means ~/.cmdvault/vault.db.
	Path string `toml:"path"`
	// Driver is "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `toml:"driver"`
}

type SearchConfig struct {
	MinTokenLength int `toml:"min_token_length"`
	// Limit caps the rows printed or returned by hosts. 0 means no cap.
	Limit       int `toml:"limit"`
	Suggestions int `toml:"suggestions"`
}

type TemplateConfig struct {
	// IdentifiersOnly restricts placeholder names to letters, digits and
	// underscores.
	IdentifiersOnly bool `toml:"identifiers_only"`
}

type DisplayConfig struct {
	FavoriteMarker   string            `toml:"favorite_marker"`
	CategoryPrefixes map[string]string `toml:"category_prefixes"`
}

type FlowConfig struct {
	Keyword string `toml:"keyword"`
}

type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite3"},
		Search:   SearchConfig{MinTokenLength: 1, Limit: 50, Suggestions: 3},
		Display:  DisplayConfig{FavoriteMarker: "★ "},
		Flow:     FlowConfig{Keyword: "cv"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load loads the configuration from the default location.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path. Keys missing from
// the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks values the toml decoder cannot.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "", "sqlite3", "sqlite":
	default:
		return fmt.Errorf("database.driver must be \"sqlite3\" or \"sqlite\", got %q", c.Database.Driver)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Search.MinTokenLength < 0 || c.Search.Limit < 0 || c.Search.Suggestions < 0 {
		return fmt.Errorf("search values must not be negative")
	}
	return nil
}

// DefaultPath returns ~/.config/cmdvault/config.toml, falling back to the
// OS config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "cmdvault", "config.toml")
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "cmdvault", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# cmdvault configuration

# YAML catalog used to seed or reset the vault (defaults to the built-in one)
# catalog = "~/commands.yaml"

[database]
# path = "~/.cmdvault/vault.db"
# sqlite3 (cgo) or sqlite (pure Go)
driver = "sqlite3"

[search]
min_token_length = 1
# rows shown by the CLI and returned to launchers, 0 for all
limit = 50
suggestions = 3

[template]
# only treat {letters_digits_underscores} as placeholders, so
# awk '{print $1}' is copied as written
identifiers_only = false

[display]
favorite_marker = "★ "

# [display.category_prefixes]
# Cisco = "[C]"
# Windows = "[W]"

[flow]
keyword = "cv"

[log]
# file = "~/.cmdvault/cmdvault.log"
# debug, info, warn or error
level = "info"
`

// CreateDefault creates a default config file at path if it doesn't exist.
func CreateDefault(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}

	if _, err := os.Stat(path); err == nil {
		return path, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

// DatabasePath returns the configured vault path with ~ expanded, or ""
// for the default location.
func (c *Config) DatabasePath() string {
	return ExpandHome(c.Database.Path)
}

func (c *Config) CatalogPath() string {
	return ExpandHome(c.Catalog)
}

// LogPath returns the log file, defaulting to cmdvault.log next to the
// vault in ~/.cmdvault.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return ExpandHome(c.Log.File)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cmdvault.log")
	}
	return filepath.Join(home, ".cmdvault", "cmdvault.log")
}

func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
