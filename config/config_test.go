package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"WINDOW_TITLE", "WINDOW_WIDTH", "WINDOW_HEIGHT", "WINDOW_FULLSCREEN",
	"RENDER_PRESENT_MODE", "RENDER_MSAA", "RENDER_FORCE_FALLBACK", "RENDER_CLEAR_COLOR", "RENDER_FRAME_LIMIT",
	"ENGINE_TICK_RATE", "ENGINE_PROFILING",
	"CAMERA_FOV", "CAMERA_NEAR", "CAMERA_FAR", "CAMERA_DAMPING", "CAMERA_MAX_TARGET_RADIUS",
	"GALAXY_VARIANT", "GALAXY_PANEL_FILE", "GALAXY_WORKERS", "GALAXY_SEED",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv unsets every variable Load reads and restores them when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galaxy.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, "vsync", cfg.Render.PresentMode)
	assert.Equal(t, 4, cfg.Render.MSAA)
	assert.Equal(t, "#0a0b07", cfg.Render.ClearColor.Hex())
	assert.Equal(t, 60.0, cfg.Engine.TickRate)
	assert.Equal(t, 45.0, cfg.Camera.FovDegrees)
	assert.Equal(t, 0.001, cfg.Camera.Near)
	assert.Equal(t, 0.05, cfg.Camera.Damping)
	assert.Equal(t, 2.0, cfg.Camera.MaxTargetRadius)
	assert.Equal(t, VariantStructured, cfg.Galaxy.Variant)
	assert.Equal(t, uint64(0), cfg.Galaxy.Seed)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
WINDOW_WIDTH=800
WINDOW_FULLSCREEN=true
RENDER_CLEAR_COLOR=#ffffff
GALAXY_VARIANT=FLAT
GALAXY_SEED=42
LOG_FORMAT=json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.True(t, cfg.Window.Fullscreen)
	assert.Equal(t, "#ffffff", cfg.Render.ClearColor.Hex())
	assert.Equal(t, VariantFlat, cfg.Galaxy.Variant)
	assert.Equal(t, uint64(42), cfg.Galaxy.Seed)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ProcessEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINDOW_WIDTH", "1024")
	path := writeEnvFile(t, "WINDOW_WIDTH=800\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Window.Width)
}

func TestLoad_MalformedValuesAreAllReported(t *testing.T) {
	clearEnv(t)
	t.Setenv("WINDOW_WIDTH", "wide")
	t.Setenv("ENGINE_PROFILING", "maybe")
	t.Setenv("RENDER_CLEAR_COLOR", "blue")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "WINDOW_WIDTH")
	assert.ErrorContains(t, err, "ENGINE_PROFILING")
	assert.ErrorContains(t, err, "RENDER_CLEAR_COLOR")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"WINDOW_HEIGHT", "0", "WINDOW_WIDTH and WINDOW_HEIGHT"},
		{"RENDER_PRESENT_MODE", "mailbox", "RENDER_PRESENT_MODE"},
		{"RENDER_MSAA", "2", "RENDER_MSAA"},
		{"RENDER_FRAME_LIMIT", "-1", "RENDER_FRAME_LIMIT"},
		{"CAMERA_FOV", "180", "CAMERA_FOV"},
		{"CAMERA_FAR", "0.0001", "CAMERA_NEAR"},
		{"CAMERA_DAMPING", "1.5", "CAMERA_DAMPING"},
		{"CAMERA_MAX_TARGET_RADIUS", "-2", "CAMERA_MAX_TARGET_RADIUS"},
		{"GALAXY_VARIANT", "spiral", "GALAXY_VARIANT"},
		{"LOG_LEVEL", "trace", "LOG_LEVEL"},
		{"LOG_FORMAT", "xml", "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.want)
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("OXY_GALAXY_TEST", "")
	assert.Equal(t, "fallback", GetEnv("OXY_GALAXY_TEST", "fallback"))
	t.Setenv("OXY_GALAXY_TEST", "set")
	assert.Equal(t, "set", GetEnv("OXY_GALAXY_TEST", "fallback"))
}
