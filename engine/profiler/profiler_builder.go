package profiler

import (
	"log/slog"
	"time"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets the minimum time between two logged samples. Values <= 0 keep the 1s default.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets the logger samples are written to.
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces time.Now for FPS measurement.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
