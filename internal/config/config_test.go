package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, 0.95, cfg.Viewport.Scale)
	assert.Equal(t, "mpv", cfg.Player.Command)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, DefaultLabels(), cfg.Labels)
	assert.True(t, cfg.Labels.HasPick("reject"))
	assert.True(t, cfg.Labels.HasColor("purple"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  url: http://photos.local:8000
  username: dries
viewport:
  width: 2560
  height: 1440
  scale: 1.5
labels:
  pick:
    - value: keep
      label: Keep
      shortcut: k
cache:
  dir: ""
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "http://photos.local:8000", cfg.Server.URL)
	assert.Equal(t, "dries", cfg.Server.Username)
	assert.Equal(t, 2560, cfg.Viewport.Width)
	assert.Equal(t, 0.95, cfg.Viewport.Scale, "out of range scale falls back")
	assert.Empty(t, cfg.Cache.Dir)

	require.Len(t, cfg.Labels.Pick, 1)
	assert.Equal(t, "keep", cfg.Labels.Pick[0].Value)
	assert.Empty(t, cfg.Labels.Pick[0].Icon, "custom labels are not merged with defaults")
	assert.Equal(t, DefaultLabels().Color, cfg.Labels.Color)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("REEL_SERVER_URL", "http://env.local")
	t.Setenv("REEL_LOGGING_LEVEL", "DEBUG")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://env.local", cfg.Server.URL)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.URL = "http://saved.local"
	cfg.Viewport.Width = 1280
	cfg.Viewport.Height = 720

	require.NoError(t, SaveConfig(cfg, dir))

	loaded, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, cfg.Viewport, loaded.Viewport)
	assert.Equal(t, cfg.Labels, loaded.Labels)
	assert.Equal(t, cfg.Player.Command, loaded.Player.Command)
}

func TestResolveViewport(t *testing.T) {
	w, h := ViewportConfig{Width: 1280, Height: 720}.ResolveViewport()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	// tests do not run on a terminal; the partial setting is kept
	w, h = ViewportConfig{Width: 1000}.ResolveViewport()
	assert.Equal(t, 1000, w)
	assert.Positive(t, h)
}
