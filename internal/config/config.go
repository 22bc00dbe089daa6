// Package config loads settings for the prgrs demo command from defaults,
// an optional YAML file and PRGRS_* environment variables, in that order of
// precedence (later wins). Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sigman78/prgrs"
)

// EnvPrefix is the prefix of environment overrides, e.g. PRGRS_COUNT.
const EnvPrefix = "PRGRS"

// Config holds the demo settings.
type Config struct {
	Count    int           `mapstructure:"count"`     // number of work items
	Length   string        `mapstructure:"length"`    // see prgrs.ParseLength
	Delay    time.Duration `mapstructure:"delay"`     // simulated time per item
	Workers  int           `mapstructure:"workers"`   // worker pool size
	Rate     float64       `mapstructure:"rate"`      // items per second, 0 = unlimited
	LogEvery int           `mapstructure:"log_every"` // interleaved line every N items, 0 = never
	Cursor   bool          `mapstructure:"cursor"`    // redraw with cursor addressing
	Debug    bool          `mapstructure:"debug"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Count:    1000,
		Length:   "0.33",
		Delay:    10 * time.Millisecond,
		Workers:  1,
		LogEvery: 100,
	}
}

// defaultConfigPath returns the directory searched for prgrs.yaml besides
// the working directory.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "prgrs")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "prgrs")
}

// Load reads configuration. When path is empty, prgrs.yaml is looked up in
// the working directory and the user config directory and may be absent.
// An explicit path must exist. Values are not range-checked; call Validate
// once all overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("count", cfg.Count)
	v.SetDefault("length", cfg.Length)
	v.SetDefault("delay", cfg.Delay)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("rate", cfg.Rate)
	v.SetDefault("log_every", cfg.LogEvery)
	v.SetDefault("cursor", cfg.Cursor)
	v.SetDefault("debug", cfg.Debug)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("prgrs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(defaultConfigPath())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Count < 0:
		return fmt.Errorf("count must not be negative")
	case c.Workers <= 0:
		return fmt.Errorf("workers must be greater than 0")
	case c.Rate < 0:
		return fmt.Errorf("rate must not be negative")
	case c.LogEvery < 0:
		return fmt.Errorf("log_every must not be negative")
	case c.Delay < 0:
		return fmt.Errorf("delay must not be negative")
	}
	if _, err := c.BarLength(); err != nil {
		return err
	}
	return nil
}

// BarLength parses Length.
func (c *Config) BarLength() (prgrs.Length, error) {
	return prgrs.ParseLength(c.Length)
}
