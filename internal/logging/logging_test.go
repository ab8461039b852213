package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/reel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reel.log")
	logger, err := SetupLogger(&config.LoggingConfig{File: path, Level: "WARN"})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("media load failed", "itemID", "42")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec), "exactly one JSON record")
	assert.Equal(t, "media load failed", rec["msg"])
	assert.Equal(t, "42", rec["itemID"])
}

func TestNullLogger(t *testing.T) {
	assert.NotPanics(t, func() { NullLogger().Error("nothing", "k", 1) })
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/reel")
	p, err := expandHome("~/.local/share/reel/reel.log")
	require.NoError(t, err)
	assert.Equal(t, "/home/reel/.local/share/reel/reel.log", p)

	p, err = expandHome("/var/log/reel.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/reel.log", p)
}
