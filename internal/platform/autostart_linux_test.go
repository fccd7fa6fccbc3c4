//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutostart_Linux(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	service := NewService()

	enabled, err := service.AutostartEnabled("ZenBox")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, service.EnableAutostart("ZenBox", "/usr/bin/zenbox", "--minimized"))
	content, err := os.ReadFile(filepath.Join(configHome, "autostart", "zenbox.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Name=ZenBox")
	assert.Contains(t, string(content), "Exec=/usr/bin/zenbox --minimized")

	enabled, err = service.AutostartEnabled("ZenBox")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, service.DisableAutostart("ZenBox"))
	require.NoError(t, service.DisableAutostart("ZenBox"))
	enabled, err = service.AutostartEnabled("ZenBox")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestAutostart_RejectsEmptyNames(t *testing.T) {
	service := NewService()
	assert.Error(t, service.EnableAutostart("", "/usr/bin/zenbox"))
	assert.Error(t, service.EnableAutostart("ZenBox", ""))
	assert.Error(t, service.DisableAutostart(""))
}

func TestAppDir(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir, err := AppDir("ZenBox")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configHome, "ZenBox"), dir)
}
