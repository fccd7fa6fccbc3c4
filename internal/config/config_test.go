package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.History.Enabled)
	assert.True(t, cfg.Desktop.SingleInstance)
}

func TestInit_NoConfigFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := viper.New()

	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestInit_ReadsExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zenbox.yaml")
	content := "logging:\n  level: debug\nhistory:\n  enabled: false\npaths:\n  data_dir: /tmp/zen\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.History.Enabled)
	dir, err := cfg.DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/tmp/zen"), dir)
	assert.Equal(t, Default().Desktop.Width, cfg.Desktop.Width)
}

func TestInit_MissingExplicitFileFails(t *testing.T) {
	v := viper.New()
	err := Init(v, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestInit_EnvironmentOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ZENBOX_LOGGING_LEVEL", "warn")
	t.Setenv("ZENBOX_DESKTOP_WIDTH", "640")

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 640, cfg.Desktop.Width)
}

func TestLoad_ValidationErrors(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("logging.level", "chatty")
	v.Set("desktop.width", 10)

	_, err := Load(v)
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 2)
	assert.Equal(t, "logging.level", errs[0].Field)
	assert.Equal(t, "desktop.width", errs[1].Field)
	assert.Contains(t, err.Error(), "2 validation errors")
}

func TestLoggingOptions(t *testing.T) {
	cfg := Default()
	cfg.Logging.File = "/var/log/zenbox.log"

	options := cfg.LoggingOptions()
	assert.Equal(t, "info", options.Level)
	assert.Equal(t, "/var/log/zenbox.log", options.File)
	assert.Equal(t, 10, options.MaxSizeMB)
}

func TestDataDir_DefaultsToAppDir(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir, err := Default().DataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configHome, AppName), dir)
}
