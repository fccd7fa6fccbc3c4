// Package config loads application configuration through viper.
// User-editable exercise preferences live in the settings package instead.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"zenbox/internal/logging"
	"zenbox/internal/platform"
)

// AppName names the config directory and the single-instance lock.
const AppName = "ZenBox"

// EnvPrefix is prepended to environment overrides, e.g. ZENBOX_LOGGING_LEVEL.
const EnvPrefix = "ZENBOX"

// Config is the application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Paths   PathsConfig   `mapstructure:"paths"`
	History HistoryConfig `mapstructure:"history"`
	Desktop DesktopConfig `mapstructure:"desktop"`
}

// LoggingConfig controls log level and destination.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// PathsConfig overrides where user data is stored.
type PathsConfig struct {
	// DataDir holds settings.yaml and history.db. Empty means the OS config dir.
	DataDir string `mapstructure:"data_dir"`
}

// HistoryConfig controls session history recording.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DesktopConfig controls the desktop window.
type DesktopConfig struct {
	Width          int  `mapstructure:"width"`
	Height         int  `mapstructure:"height"`
	SingleInstance bool `mapstructure:"single_instance"`
	StartMinimized bool `mapstructure:"start_minimized"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Desktop: DesktopConfig{
			Width:          420,
			Height:         560,
			SingleInstance: true,
		},
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)
	v.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)

	v.SetDefault("paths.data_dir", defaults.Paths.DataDir)

	v.SetDefault("history.enabled", defaults.History.Enabled)

	v.SetDefault("desktop.width", defaults.Desktop.Width)
	v.SetDefault("desktop.height", defaults.Desktop.Height)
	v.SetDefault("desktop.single_instance", defaults.Desktop.SingleInstance)
	v.SetDefault("desktop.start_minimized", defaults.Desktop.StartMinimized)
}

// Init prepares v with defaults, environment overrides and the config file.
// An explicit configFile must exist; the default location is optional.
func Init(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := platform.AppDir(AppName); err == nil {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// DataDir returns the resolved directory for settings and history.
func (c *Config) DataDir() (string, error) {
	if c.Paths.DataDir != "" {
		return filepath.Clean(c.Paths.DataDir), nil
	}
	return platform.AppDir(AppName)
}

// LoggingOptions converts the logging section for the logging package.
func (c *Config) LoggingOptions() logging.Config {
	return logging.Config{
		Level:      c.Logging.Level,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   true,
	}
}

// Validate checks the Config for invalid values and returns all validation errors found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(logging.ValidLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{Field: "logging.max_size_mb", Value: c.Logging.MaxSizeMB, Message: "must be at least 1"})
	}
	if c.Logging.MaxBackups < 0 {
		errs = append(errs, ValidationError{Field: "logging.max_backups", Value: c.Logging.MaxBackups, Message: "must be non-negative"})
	}
	if c.Logging.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{Field: "logging.max_age_days", Value: c.Logging.MaxAgeDays, Message: "must be non-negative"})
	}
	if c.Desktop.Width < 200 {
		errs = append(errs, ValidationError{Field: "desktop.width", Value: c.Desktop.Width, Message: "must be at least 200"})
	}
	if c.Desktop.Height < 200 {
		errs = append(errs, ValidationError{Field: "desktop.height", Value: c.Desktop.Height, Message: "must be at least 200"})
	}

	return errs
}
