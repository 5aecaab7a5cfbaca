package frameloop

import "time"

// SystemClock measures wall time between calls to Delta.
// The first call returns 0.
type SystemClock struct {
	now  func() time.Time
	last time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{now: time.Now}
}

// NewClockWithFunc returns a clock reading time from now. Used in tests.
func NewClockWithFunc(now func() time.Time) *SystemClock {
	return &SystemClock{now: now}
}

func (c *SystemClock) Delta() float32 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return 0
	}
	d := t.Sub(c.last)
	c.last = t
	return float32(d.Seconds())
}

// Reset makes the next Delta return 0.
func (c *SystemClock) Reset() {
	c.last = time.Time{}
}
