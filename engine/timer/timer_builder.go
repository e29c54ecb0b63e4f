package timer

import "time"

// TimerBuilderOption is a functional option for configuring a Timer.
type TimerBuilderOption func(*Timer)

// WithClock replaces time.Now as the timer's time source.
func WithClock(now func() time.Time) TimerBuilderOption {
	return func(t *Timer) {
		if now != nil {
			t.now = now
		}
	}
}
