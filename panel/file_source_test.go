package panel

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValues(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
	}{
		{
			name: "toml",
			path: "params.toml",
			data: "size = 2.5\ncount = 40\ncolor = \"#ff0000\"\nmode = \"On\"\n",
		},
		{
			name: "yaml",
			path: "params.YML",
			data: "size: 2.5\ncount: 40\ncolor: \"#ff0000\"\nmode: \"On\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := DecodeValues(tt.path, []byte(tt.data))
			require.NoError(t, err)
			require.Len(t, values, 4)

			r, p, _ := newTestRegistry(t)
			changed := r.ApplyBatch(values, true)
			assert.Equal(t, []string{"color", "count", "mode", "size"}, changed)
			assert.Equal(t, 2.5, p.size)
			assert.Equal(t, 40, p.count)
			assert.Equal(t, "#ff0000", p.color)
			assert.Equal(t, 1, p.mode)
			assert.Equal(t, 1, p.commit)
		})
	}
}

func TestDecodeValues_Errors(t *testing.T) {
	_, err := DecodeValues("params.json", []byte("{}"))
	assert.Error(t, err)

	_, err = DecodeValues("params.toml", []byte("size = = 2"))
	assert.Error(t, err)

	_, err = NewFileSource("params.ini", NewRegistry())
	assert.Error(t, err)
}

func TestFileSource_Sync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.toml")
	require.NoError(t, os.WriteFile(path, []byte("count = 70\n"), 0o644))

	r, p, _ := newTestRegistry(t)
	src, err := NewFileSource(path, r, WithFileLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())

	changed, err := src.Sync(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"count"}, changed)
	assert.Equal(t, 70, p.count)
	assert.Zero(t, p.commit, "seeding does not commit")

	changed, err = src.Sync(true)
	require.NoError(t, err)
	assert.Empty(t, changed)

	require.NoError(t, os.Remove(path))
	_, err = src.Sync(true)
	assert.Error(t, err)
}

func TestFileSource_WatchAppliesSavedChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 1\n"), 0o644))

	var mu sync.Mutex
	size, commits := 1.0, 0
	r := NewRegistry(WithLogger(quietLogger()))
	_, err := r.Register(Float("size", Range{Max: 10},
		func() float64 { mu.Lock(); defer mu.Unlock(); return size },
		func(v float64) { mu.Lock(); defer mu.Unlock(); size = v },
	), func() error {
		mu.Lock()
		defer mu.Unlock()
		commits++
		return nil
	})
	require.NoError(t, err)

	src, err := NewFileSource(path, r, WithFileLogger(quietLogger()), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, src.Start())
	defer src.Close()

	require.NoError(t, os.WriteFile(path, []byte("size: 7.5\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return size == 7.5 && commits == 1
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, src.Close())
	assert.NoError(t, src.Close())
}
