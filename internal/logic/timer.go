package logic

import "time"

// Timer measures elapsed time from the last reset.
// The zero Timer has never been reset and counts as expired for any window.
type Timer struct {
	start time.Time
}

// StartTimer returns a Timer reset at now.
func StartTimer(now time.Time) Timer {
	return Timer{start: now}
}

// Reset restarts the timer at now.
func (t *Timer) Reset(now time.Time) {
	t.start = now
}

// Expired reports whether at least d has elapsed since the last reset.
func (t Timer) Expired(now time.Time, d time.Duration) bool {
	if t.start.IsZero() {
		return true
	}
	return now.Sub(t.start) >= d
}

// Elapsed returns the time since the last reset.
func (t Timer) Elapsed(now time.Time) time.Duration {
	return now.Sub(t.start)
}
