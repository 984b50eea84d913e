// Package config handles configuration loading and management for knowbite.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/knowbite/internal/progress"
)

// Config holds all configuration for knowbite.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Progress ProgressConfig `mapstructure:"progress" yaml:"progress"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	State    StateConfig    `mapstructure:"state" yaml:"state"`
	Notify   NotifyConfig   `mapstructure:"notify" yaml:"notify"`
}

// ServerConfig holds the knowbite server endpoint.
type ServerConfig struct {
	BaseURL       string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	SessionCookie string        `mapstructure:"session_cookie" yaml:"session_cookie"`
}

// ProgressConfig holds the simulated progress curve.
type ProgressConfig struct {
	MaxIncrement float64       `mapstructure:"max_increment" yaml:"max_increment"`
	FastBelow    float64       `mapstructure:"fast_below" yaml:"fast_below"`
	FastFactor   float64       `mapstructure:"fast_factor" yaml:"fast_factor"`
	SlowAbove    float64       `mapstructure:"slow_above" yaml:"slow_above"`
	SlowFactor   float64       `mapstructure:"slow_factor" yaml:"slow_factor"`
	Ceiling      float64       `mapstructure:"ceiling" yaml:"ceiling"`
	MinInterval  time.Duration `mapstructure:"min_interval" yaml:"min_interval"`
	MaxInterval  time.Duration `mapstructure:"max_interval" yaml:"max_interval"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate" yaml:"refresh_rate"`
	BarWidth    int           `mapstructure:"bar_width" yaml:"bar_width"`
}

// LogConfig holds debug log settings.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// StateConfig holds the run history database location.
type StateConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// NotifyConfig controls desktop notifications for finished submissions.
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Tuning converts the progress section into simulator tuning.
func (p ProgressConfig) Tuning() progress.Tuning {
	return progress.Tuning{
		MaxIncrement: p.MaxIncrement,
		FastBelow:    p.FastBelow,
		FastFactor:   p.FastFactor,
		SlowAbove:    p.SlowAbove,
		SlowFactor:   p.SlowFactor,
		Ceiling:      p.Ceiling,
		MinInterval:  p.MinInterval,
		MaxInterval:  p.MaxInterval,
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url %q is not an absolute URL", c.Server.BaseURL))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("server.timeout must be > 0, got %v", c.Server.Timeout))
	}
	if err := c.Progress.Tuning().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("progress: %w", err))
	}
	if c.TUI.RefreshRate <= 0 {
		errs = append(errs, fmt.Errorf("tui.refresh_rate must be > 0, got %v", c.TUI.RefreshRate))
	}
	if c.TUI.BarWidth <= 0 {
		errs = append(errs, fmt.Errorf("tui.bar_width must be > 0, got %d", c.TUI.BarWidth))
	}

	return errors.Join(errs...)
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (KNOWBITE_SERVER_URL, KNOWBITE_SESSION_COOKIE)
// 2. Project config (.knowbite.yaml in current directory or parent)
// 3. User config (~/.config/knowbite/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	bindEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Server.SessionCookie = expandEnv(cfg.Server.SessionCookie)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
// Environment overrides still apply.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnv(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Server.SessionCookie = expandEnv(cfg.Server.SessionCookie)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	return SaveTo(cfg, GetUserConfigPath())
}

// SaveTo writes the configuration to path.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server.base_url", cfg.Server.BaseURL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("server.session_cookie", cfg.Server.SessionCookie)
	v.Set("progress.max_increment", cfg.Progress.MaxIncrement)
	v.Set("progress.fast_below", cfg.Progress.FastBelow)
	v.Set("progress.fast_factor", cfg.Progress.FastFactor)
	v.Set("progress.slow_above", cfg.Progress.SlowAbove)
	v.Set("progress.slow_factor", cfg.Progress.SlowFactor)
	v.Set("progress.ceiling", cfg.Progress.Ceiling)
	v.Set("progress.min_interval", cfg.Progress.MinInterval.String())
	v.Set("progress.max_interval", cfg.Progress.MaxInterval.String())
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("tui.bar_width", cfg.TUI.BarWidth)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.debug", cfg.Log.Debug)
	v.Set("state.db_path", cfg.State.DBPath)
	v.Set("notify.enabled", cfg.Notify.Enabled)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// DefaultLogPath returns the default debug log location.
func DefaultLogPath() string {
	return filepath.Join(getDataDir(), "logs", "knowbite-debug.log")
}

// DefaultDBPath returns the default run history database location.
func DefaultDBPath() string {
	return filepath.Join(getDataDir(), "knowbite.db")
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("server.base_url", "KNOWBITE_SERVER_URL")
	v.BindEnv("server.session_cookie", "KNOWBITE_SESSION_COOKIE")
	v.BindEnv("log.debug", "KNOWBITE_DEBUG")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.timeout", d.Server.Timeout.String())
	v.SetDefault("server.session_cookie", "")

	v.SetDefault("progress.max_increment", d.Progress.MaxIncrement)
	v.SetDefault("progress.fast_below", d.Progress.FastBelow)
	v.SetDefault("progress.fast_factor", d.Progress.FastFactor)
	v.SetDefault("progress.slow_above", d.Progress.SlowAbove)
	v.SetDefault("progress.slow_factor", d.Progress.SlowFactor)
	v.SetDefault("progress.ceiling", d.Progress.Ceiling)
	v.SetDefault("progress.min_interval", d.Progress.MinInterval.String())
	v.SetDefault("progress.max_interval", d.Progress.MaxInterval.String())

	v.SetDefault("tui.refresh_rate", d.TUI.RefreshRate.String())
	v.SetDefault("tui.bar_width", d.TUI.BarWidth)

	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.debug", false)

	v.SetDefault("state.db_path", d.State.DBPath)

	v.SetDefault("notify.enabled", false)
}

// getUserConfigDir returns the XDG config directory for knowbite.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "knowbite")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "knowbite")
	}
	return filepath.Join(home, ".config", "knowbite")
}

// getDataDir returns the XDG data directory for knowbite.
func getDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "knowbite")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".local", "share", "knowbite")
	}
	return filepath.Join(home, ".local", "share", "knowbite")
}

// findProjectConfig searches for .knowbite.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".knowbite.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	t := progress.DefaultTuning()
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Minute,
		},
		Progress: ProgressConfig{
			MaxIncrement: t.MaxIncrement,
			FastBelow:    t.FastBelow,
			FastFactor:   t.FastFactor,
			SlowAbove:    t.SlowAbove,
			SlowFactor:   t.SlowFactor,
			Ceiling:      t.Ceiling,
			MinInterval:  t.MinInterval,
			MaxInterval:  t.MaxInterval,
		},
		TUI: TUIConfig{
			RefreshRate: 100 * time.Millisecond,
			BarWidth:    40,
		},
		Log: LogConfig{
			Path: DefaultLogPath(),
		},
		State: StateConfig{
			DBPath: DefaultDBPath(),
		},
	}
}
