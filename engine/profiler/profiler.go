package profiler

import (
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/time/rate"
)

// Stats is one profiler sample covering the frames since the previous sample.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Profiler tracks frame rate and memory statistics and logs them at most once per interval.
type Profiler struct {
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration
	limiter  *rate.Sometimes

	frameCount     int
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a Profiler that logs once per second by default.
//
// Parameters:
//   - options: functional options for interval, logger and clock
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:   slog.Default(),
		now:      time.Now,
		interval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	// Consume the unconditional first Do so the first sample covers a full interval.
	p.limiter = &rate.Sometimes{Interval: p.interval}
	p.limiter.Do(func() {})
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame. When the interval has elapsed it samples and logs
// FPS, heap usage, allocation rate, GC pauses and process memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	logged := false
	p.limiter.Do(func() {
		p.last = p.sample()
		logged = true
		p.logger.Info("profiler",
			"fps", round2(p.last.FPS),
			"heap_mb", round2(p.last.HeapMB),
			"alloc_rate_mb_s", round2(p.last.AllocRateMB),
			"gc", p.last.NumGC,
			"gc_last_pause_us", p.last.LastPauseUs,
			"gc_max_pause_us", p.last.MaxPauseUs,
			"sys_mb", round2(p.last.SysMB),
		)
	})
	return logged
}

// Last returns the most recent sample.
func (p *Profiler) Last() Stats {
	return p.last
}

func (p *Profiler) sample() Stats {
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime).Seconds()
	if elapsed <= 0 {
		elapsed = p.interval.Seconds()
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:         float64(p.frameCount) / elapsed,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed,
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	// PauseNs is a circular buffer of the last 256 pauses.
	if gcCount := p.memStats.NumGC; gcCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
