// Package config loads user configuration for congregation. It supports an
// XDG config path, a project-level override, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all user-tunable settings.
type Config struct {
	// Transcript controls whether the final per-task transcript is printed
	// to stdout after the live view exits.
	Transcript bool `mapstructure:"transcript"`
	// Shell overrides the platform command shell (sh / cmd.exe).
	Shell string `mapstructure:"shell"`
	// DefaultColor is the hex RRGGBB task name color used without -c.
	DefaultColor string `mapstructure:"default_color"`
	// DebugLog enables the per-run debug log under .congregation/logs.
	DebugLog bool `mapstructure:"debug_log"`
}

// Load reads configuration with the usual precedence, highest first:
// environment variables (CONGREGATION_*), a .congregation.yaml in the
// current directory or a parent, the user config at
// ~/.config/congregation/config.yaml, and built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

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

	v.SetEnvPrefix("congregation")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Transcript:   true,
		DefaultColor: "ffffff",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("transcript", true)
	v.SetDefault("shell", "")
	v.SetDefault("default_color", "ffffff")
	v.SetDefault("debug_log", false)
}

// userConfigDir returns the XDG config directory for congregation.
func userConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "congregation")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "congregation")
	}
	return filepath.Join(home, ".config", "congregation")
}

// findProjectConfig searches for .congregation.yaml in the current directory
// and its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(cwd, ".congregation.yaml")
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
