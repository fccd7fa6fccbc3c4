package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{" error ", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zenbox.log")

	logger, err := New(Config{Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Named("session").Info("session started", Int("cycles", 13), String("locale", "en"))
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"session started"`)
	assert.Contains(t, string(content), `"cycles":13`)
	assert.Contains(t, string(content), `"logger":"session"`)
}

func TestNewWithCore_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewWithCore(core).With(String("mode", "tui"))

	logger.Debug("hidden")
	logger.Warn("record failed", Err(errors.New("disk full")), Bool("completed", true))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "record failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "tui", fields["mode"])
	assert.Equal(t, "disk full", fields["error"])
	assert.Equal(t, true, fields["completed"])
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("nothing happens")
	assert.NotNil(t, logger.With(String("k", "v")))
}
