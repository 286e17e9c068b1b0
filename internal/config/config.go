// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/hexroute/internal/schedule"
	"github.com/javiermolinar/hexroute/internal/timeslot"
)

// Config holds the application configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Duration DurationConfig `toml:"duration"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// WindowConfig holds the operating window settings.
type WindowConfig struct {
	Start       string `toml:"start"`        // e.g., "16:30"
	End         string `toml:"end"`          // e.g., "20:00"
	StepMinutes int    `toml:"step_minutes"` // canonical slot width
}

// DurationConfig holds assignment duration bounds in minutes.
type DurationConfig struct {
	MinMinutes     int `toml:"min_minutes"`
	MaxMinutes     int `toml:"max_minutes"`
	DefaultMinutes int `toml:"default_minutes"` // used when add omits --duration
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color bool `toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Start:       "16:30",
			End:         "20:00",
			StepMinutes: timeslot.DefaultStep,
		},
		Duration: DurationConfig{
			MinMinutes:     schedule.DefaultMinDuration,
			MaxMinutes:     schedule.DefaultMaxDuration,
			DefaultMinutes: 15,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Color: true,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hexroute.db"
	}
	return filepath.Join(home, ".local", "share", "hexroute", "hexroute.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "hexroute", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("HEXROUTE_WINDOW_START"); v != "" {
		cfg.Window.Start = v
	}
	if v := os.Getenv("HEXROUTE_WINDOW_END"); v != "" {
		cfg.Window.End = v
	}

	ints := []struct {
		env    string
		target *int
	}{
		{"HEXROUTE_STEP_MINUTES", &cfg.Window.StepMinutes},
		{"HEXROUTE_MIN_DURATION", &cfg.Duration.MinMinutes},
		{"HEXROUTE_MAX_DURATION", &cfg.Duration.MaxMinutes},
		{"HEXROUTE_DEFAULT_DURATION", &cfg.Duration.DefaultMinutes},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.target = n
	}

	if v := os.Getenv("HEXROUTE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("HEXROUTE_COLOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HEXROUTE_COLOR must be a boolean, got %q", v)
		}
		cfg.UI.Color = b
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	w, err := timeslot.NewWindow(c.Window.Start, c.Window.End)
	if err != nil {
		return err
	}
	if c.Window.StepMinutes <= 0 {
		return errors.New("step_minutes must be positive")
	}
	if c.Window.StepMinutes > w.Minutes() {
		return fmt.Errorf("step_minutes (%d) is longer than the window (%d minutes)", c.Window.StepMinutes, w.Minutes())
	}
	if c.Duration.MinMinutes <= 0 {
		return errors.New("min_minutes must be positive")
	}
	if c.Duration.MaxMinutes < c.Duration.MinMinutes {
		return errors.New("max_minutes must not be below min_minutes")
	}
	if c.Duration.DefaultMinutes < c.Duration.MinMinutes || c.Duration.DefaultMinutes > c.Duration.MaxMinutes {
		return fmt.Errorf("default_minutes must be between %d and %d", c.Duration.MinMinutes, c.Duration.MaxMinutes)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// OperatingWindow returns the configured window. The config must be valid.
func (c *Config) OperatingWindow() timeslot.Window {
	w, err := timeslot.NewWindow(c.Window.Start, c.Window.End)
	if err != nil {
		return timeslot.DefaultWindow()
	}
	return w
}

// Constraints returns the scheduling constraints new routes are created with.
func (c *Config) Constraints() schedule.Constraints {
	return schedule.Constraints{
		Window:      c.OperatingWindow(),
		MinDuration: c.Duration.MinMinutes,
		MaxDuration: c.Duration.MaxMinutes,
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
