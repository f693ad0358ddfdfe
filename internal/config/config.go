// Package config loads the YAML settings file shared by the CLI and TUI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/constants"
	"github.com/julianstephens/habitchain/internal/utils"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Database is a sqlite path, a path ending in .json, or a postgres URL.
	Database    string `yaml:"database"`
	Timezone    string `yaml:"timezone"`
	StreakLimit int    `yaml:"streak_limit"`
	WindowDays  int    `yaml:"window_days"`
	Debug       bool   `yaml:"debug"`

	path string
}

func Default() *Config {
	return &Config{
		Database:    constants.DefaultDBPath,
		Timezone:    constants.DefaultTimezone,
		StreakLimit: adherence.DefaultStreakLimit,
		WindowDays:  constants.DefaultWindowDays,
	}
}

// ResolvePath picks the config file location: an explicit flag wins, then
// HABITCHAIN_CONFIG, then the default under ~/.config.
func ResolvePath(flag string) string {
	path := flag
	if path == "" {
		path = os.Getenv(constants.EnvConfigPath)
	}
	if path == "" {
		path = constants.DefaultConfigPath
	}
	return utils.ExpandHome(path)
}

// Load reads path. A missing file yields the defaults; zero-valued fields in
// an existing file are filled from the defaults too.
func Load(path string) (*Config, error) {
	path = utils.ExpandHome(path)
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.merge(fileCfg)
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.StreakLimit != 0 {
		c.StreakLimit = o.StreakLimit
	}
	if o.WindowDays != 0 {
		c.WindowDays = o.WindowDays
	}
	c.Debug = c.Debug || o.Debug
}

func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("%w: database must not be empty", ErrInvalidConfig)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
	}
	if c.StreakLimit <= 0 {
		return fmt.Errorf("%w: streak_limit must be positive, got %d", ErrInvalidConfig, c.StreakLimit)
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("%w: window_days must be positive, got %d", ErrInvalidConfig, c.WindowDays)
	}
	return nil
}

// Save writes the config as YAML, creating parent directories. An empty path
// means the location the config was loaded from.
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.path
	}
	if path == "" {
		return fmt.Errorf("%w: no path to save to", ErrInvalidConfig)
	}
	path = utils.ExpandHome(path)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	c.path = path
	return nil
}

// Path is where the config was loaded from or last saved to.
func (c *Config) Path() string {
	return c.path
}

// Dir is the directory that holds the config file; logs and backups live
// beneath it.
func (c *Config) Dir() string {
	if c.path == "" {
		return utils.ExpandHome(constants.DefaultConfigDir)
	}
	return filepath.Dir(c.path)
}

func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Engine builds an adherence engine tuned by this config.
func (c *Config) Engine() *adherence.Engine {
	return adherence.New(
		adherence.WithStreakLimit(c.StreakLimit),
		adherence.WithWindowDays(c.WindowDays),
	)
}
