package timer

import (
	"sync"
	"time"
)

// Timer is a monotonic, resettable clock measured in seconds.
// It is safe for concurrent use.
type Timer struct {
	mu    *sync.Mutex
	now   func() time.Time
	start time.Time
	last  time.Time
	delta float64
}

// New creates a Timer that starts counting immediately.
//
// Parameters:
//   - options: functional options, used by tests to inject a clock
//
// Returns:
//   - *Timer: the running timer
func New(options ...TimerBuilderOption) *Timer {
	t := &Timer{
		mu:  &sync.Mutex{},
		now: time.Now,
	}
	for _, opt := range options {
		opt(t)
	}
	t.start = t.now()
	t.last = t.start
	return t
}

// Tick advances the timer and returns the seconds since the previous Tick or Reset.
func (t *Timer) Tick() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.delta = now.Sub(t.last).Seconds()
	t.last = now
	return t.delta
}

// Delta returns the duration of the most recent Tick in seconds.
func (t *Timer) Delta() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delta
}

// Elapsed returns the seconds since the timer was created or last reset.
func (t *Timer) Elapsed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start).Seconds()
}

// Reset restarts the elapsed count from zero.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start = t.now()
	t.last = t.start
	t.delta = 0
}
