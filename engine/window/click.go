package window

import "time"

// clickTracker detects double clicks from a stream of press timestamps.
type clickTracker struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

func newClickTracker(interval time.Duration, now func() time.Time) *clickTracker {
	return &clickTracker{interval: interval, now: now}
}

// click records a press and reports whether it completes a double click.
// The press that completes a double click does not start the next one.
func (c *clickTracker) click() bool {
	t := c.now()
	if !c.last.IsZero() && t.Sub(c.last) <= c.interval {
		c.last = time.Time{}
		return true
	}
	c.last = t
	return false
}
