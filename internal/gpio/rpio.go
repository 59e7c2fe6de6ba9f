//go:build linux

package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio"
)

// RpioLines drives the keypad through memory-mapped GPIO (/dev/gpiomem).
// Only one RpioLines may be open at a time.
type RpioLines struct {
	rows [4]rpio.Pin
	cols [4]rpio.Pin
}

// NewRpioLines maps GPIO memory and configures rows as outputs (idle high)
// and columns as inputs with pull-up.
func NewRpioLines(rowPins, colPins [4]int) (*RpioLines, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpiomem: %w", err)
	}

	l := &RpioLines{}
	for i, n := range rowPins {
		p := rpio.Pin(n)
		p.Output()
		p.High()
		l.rows[i] = p
	}
	for i, n := range colPins {
		p := rpio.Pin(n)
		p.Input()
		p.PullUp()
		l.cols[i] = p
	}
	return l, nil
}

// SetRow drives row low when active, high when idle.
func (l *RpioLines) SetRow(row int, active bool) error {
	if active {
		l.rows[row].Low()
	} else {
		l.rows[row].High()
	}
	return nil
}

// Column reports whether col is pulled low.
func (l *RpioLines) Column(col int) (bool, error) {
	return l.cols[col].Read() == rpio.Low, nil
}

// Close returns the rows to inputs and unmaps GPIO memory.
func (l *RpioLines) Close() error {
	for _, p := range l.rows {
		p.Input()
		p.PullUp()
	}
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close gpiomem: %w", err)
	}
	return nil
}
