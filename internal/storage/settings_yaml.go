package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"zenbox/internal/platform"
	"zenbox/internal/settings"
)

const (
	settingsFileName = "settings.yaml"
	watchDebounce    = 50 * time.Millisecond
)

type yamlSettings struct {
	PhaseDurationSeconds int    `yaml:"phase_duration_seconds"`
	TotalCycles          int    `yaml:"total_cycles"`
	Locale               string `yaml:"locale"`
	Sound                *bool  `yaml:"sound"`
	CountdownSeconds     *int   `yaml:"countdown_seconds"`
}

// SettingsStore reads and writes user preferences as YAML.
type SettingsStore struct {
	path string
}

// NewSettingsStore returns a store inside the application's config directory.
func NewSettingsStore(appName string) (*SettingsStore, error) {
	appDir, err := platform.AppDir(appName)
	if err != nil {
		return nil, fmt.Errorf("resolve settings path: %w", err)
	}
	return &SettingsStore{path: SettingsPath(appDir)}, nil
}

// SettingsPath returns the settings file location inside appDir.
func SettingsPath(appDir string) string {
	return filepath.Join(appDir, settingsFileName)
}

// NewSettingsStoreAt returns a store backed by the file at path.
func NewSettingsStoreAt(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// Path returns the settings file location.
func (store *SettingsStore) Path() string {
	return store.path
}

// Load reads user preferences from YAML.
// If the file does not exist, default settings are returned. If it cannot be
// parsed, default settings are returned together with the error.
func (store *SettingsStore) Load() (settings.Settings, error) {
	loaded := settings.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return loaded, nil
		}
		return loaded, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return loaded, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&loaded, fileData)
	return loaded.Clamp(), nil
}

// Save clamps and writes user preferences to YAML.
func (store *SettingsStore) Save(value settings.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	value = value.Clamp()
	sound := value.Sound
	countdown := value.CountdownSeconds
	fileData := yamlSettings{
		PhaseDurationSeconds: value.PhaseDuration,
		TotalCycles:          value.TotalCycles,
		Locale:               value.Locale,
		Sound:                &sound,
		CountdownSeconds:     &countdown,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(store.path), "."+settingsFileName+"-*")
	if err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	tempPath := tempFile.Name()
	if _, err := tempFile.Write(serialized); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, store.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace settings file: %w", err)
	}

	return nil
}

// Watch reloads the settings whenever the file is written or replaced and
// passes the result to onChange. Watching stops when ctx is done.
func (store *SettingsStore) Watch(ctx context.Context, onChange func(settings.Settings, error)) error {
	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config directory: %w", err)
	}

	go store.watchLoop(ctx, watcher, onChange)
	return nil
}

func (store *SettingsStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(settings.Settings, error)) {
	defer watcher.Close()

	// Editors and Save both produce bursts of events for one change.
	debounce := time.NewTimer(watchDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	target := filepath.Clean(store.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)
		case <-debounce.C:
			loaded, err := store.Load()
			if onChange != nil {
				onChange(loaded, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if onChange != nil {
				onChange(settings.DefaultSettings(), fmt.Errorf("watch settings: %w", err))
			}
		}
	}
}

func applyYamlSettings(target *settings.Settings, fileData yamlSettings) {
	if fileData.PhaseDurationSeconds > 0 {
		target.PhaseDuration = fileData.PhaseDurationSeconds
	}
	if fileData.TotalCycles > 0 {
		target.TotalCycles = fileData.TotalCycles
	}
	if fileData.Locale != "" {
		target.Locale = fileData.Locale
	}
	if fileData.Sound != nil {
		target.Sound = *fileData.Sound
	}
	if fileData.CountdownSeconds != nil && *fileData.CountdownSeconds >= 0 {
		target.CountdownSeconds = *fileData.CountdownSeconds
	}
}
