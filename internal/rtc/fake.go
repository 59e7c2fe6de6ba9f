package rtc

import "time"

// FakeClock is a test double with a manually advanced time.
type FakeClock struct {
	// T is the time returned by Now.
	T time.Time

	// Sets records every time passed to Set.
	Sets []time.Time

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeClock creates a FakeClock at t.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{T: t}
}

// Now returns T.
func (f *FakeClock) Now() time.Time {
	return f.T
}

// Set records t and makes it the current time.
func (f *FakeClock) Set(t time.Time) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Sets = append(f.Sets, t)
	f.T = t
	return nil
}

// Advance moves the clock forward by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}
