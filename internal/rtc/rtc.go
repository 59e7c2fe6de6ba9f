// Package rtc provides the wall clock the appliance displays and sets.
package rtc

import (
	"sync"
	"time"
)

// Clock reads and sets the wall-clock time.
type Clock interface {
	Now() time.Time
	Set(t time.Time) error
}

// SystemClock is a software clock running at the rate of the system clock.
// Setting it stores an offset, so the system time itself is never changed.
type SystemClock struct {
	mu     sync.RWMutex
	offset time.Duration
	now    func() time.Time
	loc    *time.Location
}

// NewSystemClock creates a SystemClock reporting time in loc.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{now: time.Now, loc: loc}
}

// Now returns the current wall-clock time.
func (c *SystemClock) Now() time.Time {
	c.mu.RLock()
	off := c.offset
	c.mu.RUnlock()
	return c.now().Add(off).In(c.loc)
}

// Set makes Now report t from this instant on.
func (c *SystemClock) Set(t time.Time) error {
	c.mu.Lock()
	c.offset = t.Sub(c.now())
	c.mu.Unlock()
	return nil
}

// Offset returns the difference between the wall clock and system time.
func (c *SystemClock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}
