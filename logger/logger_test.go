package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-galaxy/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})

	l.Info("dropped")
	l.Warn("galaxy: parameters rejected", "field", "radius")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "radius", record["field"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"})

	l.Debug("galaxy: regenerated", "stars", 1000)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "stars=1000")
}
