// Package config loads the porchconf settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvFile     = "PORCHCONF_FILE"
	EnvLogLevel = "PORCHCONF_LOG_LEVEL"
	EnvArchive  = "PORCHCONF_ARCHIVE"
)

// DefaultPorchFile is the backing file used when nothing else is configured
const DefaultPorchFile = "PorchConf.txt"

// Config holds the porchconf settings
type Config struct {
	// File is the porch conf text file
	File string `yaml:"file" validate:"required"`
	// Precision is the number of significant digits written for numbers, -1 for shortest
	Precision int `yaml:"precision" validate:"min=-1,max=9,ne=0"`
	// Log configures the diagnostic stream
	Log LogConfig `yaml:"log"`
	// Archive is the SQLite snapshot database, empty for the default location
	Archive string `yaml:"archive"`
	// WatchDebounce is how long `watch` waits for writes to settle
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"min=0"`
}

// LogConfig configures zerolog
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	File  string `yaml:"file"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		File:      DefaultPorchFile,
		Precision: 6,
		Log: LogConfig{
			Level: "info",
		},
		WatchDebounce: 200 * time.Millisecond,
	}
}

// Dir returns the per-user settings directory
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".porchconf"), nil
}

// DefaultPath returns the settings file location
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "porchconf.yaml"), nil
}

// Load reads the settings file at path, creating it with defaults on first
// run, then applies environment overrides and validates the result. An empty
// path means DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return Config{}, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- settings path is chosen by the user
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvFile); v != "" {
		c.File = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvArchive); v != "" {
		c.Archive = v
	}
}

// Validate checks the settings
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %s)", fe.Namespace(), fe.Tag(), formatValue(fe.Value()))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ArchivePath returns the SQLite archive location
func (c Config) ArchivePath() (string, error) {
	if c.Archive != "" {
		return c.Archive, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "archive.db"), nil
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprint(x)
	}
}

func createDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) // #nosec G306 -- settings are not secret
}
