package panel

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSource is a panel frontend backed by a params file.
//
// The file is a flat table of control names to values in TOML (.toml) or YAML (.yaml, .yml). Saving the file
// is the "finished editing" event: every control whose value changed is written and each affected onCommit
// runs once. The directory is watched rather than the file so editors that save by rename are followed.
type FileSource struct {
	path     string
	registry *Registry
	logger   *slog.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewFileSource creates a FileSource for path. The file extension selects the decoder.
//
// Parameters:
//   - path: the params file
//   - r: the registry the values are applied to
//   - options: functional options for logging and debounce
//
// Returns:
//   - *FileSource: the source, not yet watching
//   - error: error if the extension is not supported
func NewFileSource(path string, r *Registry, options ...FileSourceBuilderOption) (*FileSource, error) {
	if _, err := decoderFor(path); err != nil {
		return nil, err
	}
	f := &FileSource{
		path:     path,
		registry: r,
		logger:   slog.Default(),
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(f)
	}
	return f, nil
}

// Path returns the watched params file.
func (f *FileSource) Path() string {
	return f.path
}

// Load reads and decodes the params file.
//
// Returns:
//   - map[string]any: the decoded values keyed by control name
//   - error: error if the file cannot be read or decoded
func (f *FileSource) Load() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read params file: %w", err)
	}
	return DecodeValues(f.path, data)
}

// Sync loads the file and applies every changed value to the registry.
//
// Parameters:
//   - commit: if false, values are written without firing onCommit, as when seeding initial parameters
//
// Returns:
//   - []string: the names of the controls that changed
//   - error: error if the file cannot be loaded
func (f *FileSource) Sync(commit bool) ([]string, error) {
	values, err := f.Load()
	if err != nil {
		return nil, err
	}
	return f.registry.ApplyBatch(values, commit), nil
}

// Start begins watching the params file. Each settled change is synced with commit enabled.
func (f *FileSource) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create params watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", f.path, err)
	}
	f.watcher = watcher

	f.wg.Add(1)
	go f.watch()
	return nil
}

func (f *FileSource) watch() {
	defer f.wg.Done()

	target := filepath.Clean(f.path)
	var settle *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-f.done:
			if settle != nil {
				settle.Stop()
			}
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				// Editors often emit several writes per save, wait for them to settle.
				if settle == nil {
					settle = time.NewTimer(f.debounce)
				} else {
					settle.Reset(f.debounce)
				}
				fire = settle.C
			}
		case <-fire:
			fire = nil
			changed, err := f.Sync(true)
			if err != nil {
				f.logger.Warn("panel: params file not applied", "path", f.path, "error", err)
				continue
			}
			if len(changed) > 0 {
				f.logger.Info("panel: params file applied", "path", f.path, "changed", changed)
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("panel: params watcher error", "error", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (f *FileSource) Close() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		if f.watcher != nil {
			err = f.watcher.Close()
		}
		f.wg.Wait()
	})
	return err
}

// DecodeValues decodes a flat params table, choosing TOML or YAML from the path's extension.
func DecodeValues(path string, data []byte) (map[string]any, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any)
	if err := decode(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return values, nil
}

func decoderFor(path string) (func([]byte, any) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal, nil
	case ".yaml", ".yml":
		return yaml.Unmarshal, nil
	default:
		return nil, fmt.Errorf("panel: unsupported params file %q, expected .toml, .yaml or .yml", path)
	}
}
