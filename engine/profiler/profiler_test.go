package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler_LogsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	p := NewProfiler(WithLogger(logger), WithInterval(20*time.Millisecond))

	assert.False(t, p.Tick(), "the first frame never logs")

	time.Sleep(30 * time.Millisecond)
	require.True(t, p.Tick())
	assert.False(t, p.Tick(), "a second frame inside the interval is throttled")

	assert.Contains(t, buf.String(), "fps=")
	assert.Contains(t, buf.String(), "heap_mb=")
	assert.Greater(t, p.Last().FPS, 0.0)
	assert.Greater(t, p.Last().SysMB, 0.0)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.236))
}
