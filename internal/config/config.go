// Package config loads wikitrail settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds wikitrail configuration.
type Config struct {
	Source  SourceConfig  `toml:"source"`
	Explore ExploreConfig `toml:"explore"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

// SourceConfig selects where links come from.
type SourceConfig struct {
	Kind      string `toml:"kind" validate:"oneof=mediawiki sqlite"`
	Endpoint  string `toml:"endpoint" validate:"omitempty,url"`
	Database  string `toml:"database"`
	UserAgent string `toml:"user_agent" validate:"required"`
	Timeout   int    `toml:"timeout" validate:"min=1,max=300"` // seconds
	MaxLinks  int    `toml:"max_links" validate:"min=0"`
}

// ExploreConfig controls graph building.
type ExploreConfig struct {
	LabelWidth  int `toml:"label_width" validate:"min=4,max=200"`
	Concurrency int `toml:"concurrency" validate:"min=1,max=64"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls the Prometheus listener. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `toml:"addr" validate:"omitempty,hostname_port"`
}

// TimeoutDuration returns the source timeout.
func (s SourceConfig) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:      "mediawiki",
			Endpoint:  "https://en.wikipedia.org/w/api.php",
			UserAgent: "wikitrail/0.1 (https://github.com/wikitrail/trail)",
			Timeout:   15,
			MaxLinks:  40,
		},
		Explore: ExploreConfig{LabelWidth: 20, Concurrency: 4},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// ConfigDir returns the wikitrail config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "wikitrail")
}

// DefaultPath returns the config file path under ConfigDir.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path over the defaults. An empty path means
// DefaultPath. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var validate = validator.New()

// Validate checks every field, reporting the first failure.
func (c *Config) Validate() error {
	return formatValidationError(validate.Struct(c))
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", field, param, e.Value())
		case "url":
			return fmt.Errorf("%s: must be a URL", field)
		case "hostname_port":
			return fmt.Errorf("%s: must be host:port", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
