package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenbox/internal/settings"
	"zenbox/internal/storage"
)

// testEnv writes a config file that points the data directory at a temp dir.
func testEnv(t *testing.T) (configFile, dataDir string) {
	t.Helper()
	dir := t.TempDir()
	dataDir = filepath.Join(dir, "data")
	configFile = filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("logging:\n  level: error\npaths:\n  data_dir: %q\n", dataDir)
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return configFile, dataDir
}

func executeCommand(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--config", configFile}, args...))
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "zenbox", root.Use)

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"tui", "settings", "history", "autostart"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	for _, flag := range []string{"config", "log-level", "log-file"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag %q", flag)
	}
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := executeCommand(t, filepath.Join(t.TempDir(), "absent.yaml"), "settings", "path")
	assert.Error(t, err)
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	configFile, _ := testEnv(t)
	_, err := executeCommand(t, configFile, "--log-level", "loud", "settings", "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestSettingsPath(t *testing.T) {
	configFile, dataDir := testEnv(t)

	out, err := executeCommand(t, configFile, "settings", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "settings.yaml")+"\n", out)
}

func TestSettingsShow_Defaults(t *testing.T) {
	configFile, _ := testEnv(t)

	out, err := executeCommand(t, configFile, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "phase_duration_seconds: 6\n")
	assert.Contains(t, out, "total_cycles: 13\n")
	assert.Contains(t, out, "locale: en\n")
	assert.Contains(t, out, "sound: true\n")
	assert.Contains(t, out, "session_length: 5m12s\n")
}

func TestSettingsSet_SavesChangedFlagsOnly(t *testing.T) {
	configFile, dataDir := testEnv(t)

	_, err := executeCommand(t, configFile, "settings", "set", "--duration", "5", "--sound=false")
	require.NoError(t, err)

	out, err := executeCommand(t, configFile, "settings", "set", "--cycles", "10", "--locale", "pt-BR")
	require.NoError(t, err)
	assert.Contains(t, out, "phase_duration_seconds: 5\n")
	assert.Contains(t, out, "total_cycles: 10\n")

	loaded, err := storage.NewSettingsStoreAt(storage.SettingsPath(dataDir)).Load()
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{
		PhaseDuration:    5,
		TotalCycles:      10,
		Locale:           "pt-BR",
		Sound:            false,
		CountdownSeconds: 3,
	}, loaded)
}

func TestSettingsSet_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"duration too long", []string{"--duration", "61"}, "phase_duration"},
		{"zero cycles", []string{"--cycles", "0"}, "total_cycles"},
		{"countdown too long", []string{"--countdown", "11"}, "countdown_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile, dataDir := testEnv(t)

			_, err := executeCommand(t, configFile, append([]string{"settings", "set"}, tt.args...)...)
			var errs settings.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.field, errs[0].Field)

			_, statErr := os.Stat(storage.SettingsPath(dataDir))
			assert.True(t, os.IsNotExist(statErr), "nothing should be written")
		})
	}
}

func TestTUI_RejectsInvalidOverrides(t *testing.T) {
	configFile, _ := testEnv(t)

	_, err := executeCommand(t, configFile, "tui", "--duration", "0")
	var errs settings.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "phase_duration", errs[0].Field)
}

func TestHistory_Empty(t *testing.T) {
	configFile, _ := testEnv(t)

	out, err := executeCommand(t, configFile, "history")
	require.NoError(t, err)
	assert.Equal(t, "No sessions recorded yet.\n", out)
}

func TestHistory_ListsSessions(t *testing.T) {
	configFile, dataDir := testEnv(t)

	history, err := storage.OpenHistory(storage.HistoryPath(dataDir))
	require.NoError(t, err)
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	_, err = history.Record(context.Background(), storage.HistoryEntry{
		StartedAt: start, EndedAt: start.Add(5 * time.Minute),
		PhaseDuration: 6, TotalCycles: 13, CompletedCycles: 13, Completed: true,
	})
	require.NoError(t, err)
	_, err = history.Record(context.Background(), storage.HistoryEntry{
		StartedAt: start.Add(time.Hour), EndedAt: start.Add(time.Hour + time.Minute),
		PhaseDuration: 4, TotalCycles: 10, CompletedCycles: 3,
	})
	require.NoError(t, err)
	require.NoError(t, history.Close())

	out, err := executeCommand(t, configFile, "history", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "13/13")
	assert.Contains(t, out, "3/10")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "abandoned")
	assert.Contains(t, out, "5m0s")
	assert.Contains(t, out, "2 sessions, 1 completed, 16 cycles breathed.")
}

func TestAutostart_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("autostart files are checked on linux only")
	}
	configFile, _ := testEnv(t)

	out, err := executeCommand(t, configFile, "autostart", "status")
	require.NoError(t, err)
	assert.Equal(t, "disabled\n", out)

	_, err = executeCommand(t, configFile, "autostart", "enable")
	require.NoError(t, err)
	out, err = executeCommand(t, configFile, "autostart", "status")
	require.NoError(t, err)
	assert.Equal(t, "enabled\n", out)

	_, err = executeCommand(t, configFile, "autostart", "disable")
	require.NoError(t, err)
	out, err = executeCommand(t, configFile, "autostart", "status")
	require.NoError(t, err)
	assert.Equal(t, "disabled\n", out)
}
