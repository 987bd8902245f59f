package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Display.OverrideWindow)
	assert.Equal(t, "png", cfg.Export.Format)
	assert.Equal(t, 90, cfg.Export.JPEGQuality)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10, cfg.Cine.FPS)
}

// TestLoadMissingFile verifies a missing config file yields the defaults
func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mprview.yaml")

	cfg := DefaultConfig()
	cfg.Display.OverrideWindow = true
	cfg.Display.WindowMin = -100
	cfg.Display.WindowMax = 400
	cfg.Export.Format = "jpg"
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = "/tmp/mpr-cache"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// TestPartialFile verifies unspecified fields keep their defaults
func TestPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  format: jpg\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "jpg", cfg.Export.Format)
	assert.Equal(t, 90, cfg.Export.JPEGQuality)
	assert.Equal(t, 10, cfg.Cine.FPS)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "mprview.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}
