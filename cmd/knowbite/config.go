package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/knowbite/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify knowbite configuration.

Without arguments, displays the effective configuration as YAML.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/knowbite/config.yaml
Project-specific overrides can be placed in .knowbite.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg *config.Config
			err error
		)
		if configPath != "" {
			cfg, err = config.LoadFromPath(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		switch len(args) {
		case 0:
			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Print(out)
			fmt.Printf("# session cookie source: %s\n", config.GetSessionCookieSource(cfg))
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		default:
			return setConfigKey(cfg, args[0], args[1])
		}
	},
}

// configKey is one dot-notation setting.
type configKey struct {
	name string
	get  func(*config.Config) any
	set  func(*config.Config, string) error
}

var configKeys = []configKey{
	stringKey("server.base_url", func(c *config.Config) *string { return &c.Server.BaseURL }),
	durationKey("server.timeout", func(c *config.Config) *time.Duration { return &c.Server.Timeout }),
	{
		name: "server.session_cookie",
		get:  func(c *config.Config) any { return config.MaskSessionCookie(c.Server.SessionCookie) },
		set: func(c *config.Config, v string) error {
			if err := config.ValidateSessionCookie(v); err != nil {
				return err
			}
			c.Server.SessionCookie = v
			return nil
		},
	},
	floatKey("progress.max_increment", func(c *config.Config) *float64 { return &c.Progress.MaxIncrement }),
	floatKey("progress.fast_below", func(c *config.Config) *float64 { return &c.Progress.FastBelow }),
	floatKey("progress.fast_factor", func(c *config.Config) *float64 { return &c.Progress.FastFactor }),
	floatKey("progress.slow_above", func(c *config.Config) *float64 { return &c.Progress.SlowAbove }),
	floatKey("progress.slow_factor", func(c *config.Config) *float64 { return &c.Progress.SlowFactor }),
	floatKey("progress.ceiling", func(c *config.Config) *float64 { return &c.Progress.Ceiling }),
	durationKey("progress.min_interval", func(c *config.Config) *time.Duration { return &c.Progress.MinInterval }),
	durationKey("progress.max_interval", func(c *config.Config) *time.Duration { return &c.Progress.MaxInterval }),
	durationKey("tui.refresh_rate", func(c *config.Config) *time.Duration { return &c.TUI.RefreshRate }),
	intKey("tui.bar_width", func(c *config.Config) *int { return &c.TUI.BarWidth }),
	stringKey("log.path", func(c *config.Config) *string { return &c.Log.Path }),
	boolKey("log.debug", func(c *config.Config) *bool { return &c.Log.Debug }),
	stringKey("state.db_path", func(c *config.Config) *string { return &c.State.DBPath }),
	boolKey("notify.enabled", func(c *config.Config) *bool { return &c.Notify.Enabled }),
}

func lookupKey(name string) (configKey, error) {
	name = strings.ToLower(name)
	for _, k := range configKeys {
		if k.name == name {
			return k, nil
		}
	}
	if suggestion := suggestKey(name); suggestion != "" {
		return configKey{}, fmt.Errorf("unknown configuration key: %s (did you mean %s?)", name, suggestion)
	}
	return configKey{}, fmt.Errorf("unknown configuration key: %s", name)
}

// suggestKey returns the known key that best fuzzy-matches name, if any.
func suggestKey(name string) string {
	names := make([]string, len(configKeys))
	for i, k := range configKeys {
		names[i] = k.name
	}
	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	k, err := lookupKey(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(k.get(cfg)), nil
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	k, err := lookupKey(key)
	if err != nil {
		return err
	}
	return k.set(cfg, value)
}

// setConfigKey sets a value, validates the result and saves it.
func setConfigKey(cfg *config.Config, key, value string) error {
	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save: %w", err)
	}

	path := configPath
	if path == "" {
		path = config.GetUserConfigPath()
	}
	if err := config.SaveTo(cfg, path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// renderConfig renders cfg as YAML with durations in their string form and
// the session cookie masked.
func renderConfig(cfg *config.Config) (string, error) {
	sections := map[string]map[string]any{}
	for _, k := range configKeys {
		section, field, _ := strings.Cut(k.name, ".")
		if sections[section] == nil {
			sections[section] = map[string]any{}
		}
		sections[section][field] = k.get(cfg)
	}

	out, err := yaml.Marshal(sections)
	if err != nil {
		return "", fmt.Errorf("render config: %w", err)
	}
	return string(out), nil
}

func stringKey(name string, field func(*config.Config) *string) configKey {
	return configKey{
		name: name,
		get:  func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			*field(c) = v
			return nil
		},
	}
}

func durationKey(name string, field func(*config.Config) *time.Duration) configKey {
	return configKey{
		name: name,
		get:  func(c *config.Config) any { return field(c).String() },
		set: func(c *config.Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid duration for %s: %w", name, err)
			}
			*field(c) = d
			return nil
		},
	}
}

func floatKey(name string, field func(*config.Config) *float64) configKey {
	return configKey{
		name: name,
		get:  func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid number for %s: %w", name, err)
			}
			*field(c) = f
			return nil
		},
	}
}

func intKey(name string, field func(*config.Config) *int) configKey {
	return configKey{
		name: name,
		get:  func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
			*field(c) = n
			return nil
		},
	}
}

func boolKey(name string, field func(*config.Config) *bool) configKey {
	return configKey{
		name: name,
		get:  func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", name, err)
			}
			*field(c) = b
			return nil
		},
	}
}
