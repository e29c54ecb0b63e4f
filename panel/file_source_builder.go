package panel

import (
	"log/slog"
	"time"
)

// FileSourceBuilderOption is a functional option for configuring a FileSource.
type FileSourceBuilderOption func(*FileSource)

// WithFileLogger sets the logger used for watch and decode failures.
func WithFileLogger(logger *slog.Logger) FileSourceBuilderOption {
	return func(f *FileSource) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithDebounce sets how long the file must be quiet after a write before it is applied.
//
// Parameters:
//   - d: the settle delay, values <= 0 keep the default of 100ms
//
// Returns:
//   - FileSourceBuilderOption: option function to apply
func WithDebounce(d time.Duration) FileSourceBuilderOption {
	return func(f *FileSource) {
		if d > 0 {
			f.debounce = d
		}
	}
}
