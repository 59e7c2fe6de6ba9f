package keypad

import (
	"time"

	"github.com/sweeney/clock-thermo/internal/logic"
)

// Debouncer turns raw scan results into key presses.
//
// A detected position is accepted if it differs from the last accepted
// position, or if the debounce window has passed since the last acceptance.
// A position change is therefore reported immediately even inside the window.
// A scan with nothing pressed accepts nothing and leaves the last accepted
// position in place, so a contact that opens for one scan is not reported
// twice.
type Debouncer struct {
	window time.Duration
	last   Position
	timer  logic.Timer
}

// NewDebouncer creates a Debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window: window,
		last:   NoKey,
	}
}

// Next returns the key for pos if it is accepted, NullKey otherwise.
func (d *Debouncer) Next(pos Position, now time.Time) byte {
	if !pos.Valid() {
		return NullKey
	}
	if pos == d.last && !d.timer.Expired(now, d.window) {
		return NullKey
	}

	d.last = pos
	d.timer.Reset(now)
	return pos.Key()
}
