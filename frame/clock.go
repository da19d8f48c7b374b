// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package frame

import (
	"time"
)

// Clock measures the time elapsed between ticks.
// It uses the monotonic clock.
type Clock struct {
	// Now, if not nil, replaces time.Now.
	Now  func() time.Time
	last time.Time
}

func (c *Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Tick returns the seconds elapsed since the previous
// call. The first call returns zero.
func (c *Clock) Tick() float32 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	return float32(dt)
}

// Reset makes the next Tick return zero.
func (c *Clock) Reset() { c.last = time.Time{} }
