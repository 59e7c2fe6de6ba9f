// Package thermo converts analog sensor readings to temperatures and holds
// the Celsius/Fahrenheit selection toggled by the unit button.
package thermo

import (
	"fmt"
	"sync/atomic"
)

// Unit is a temperature unit.
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
)

// Letter returns the unit letter shown on the display.
func (u Unit) Letter() byte {
	if u == Fahrenheit {
		return 'F'
	}
	return 'C'
}

func (u Unit) String() string {
	return string(u.Letter())
}

// UnitToggle is the unit selection. Flip is called from the button's edge
// handler goroutine while the main loop reads Unit.
type UnitToggle struct {
	fahrenheit atomic.Bool
}

// Flip switches between Celsius and Fahrenheit.
func (t *UnitToggle) Flip() {
	for {
		old := t.fahrenheit.Load()
		if t.fahrenheit.CompareAndSwap(old, !old) {
			return
		}
	}
}

// Unit returns the current selection.
func (t *UnitToggle) Unit() Unit {
	if t.fahrenheit.Load() {
		return Fahrenheit
	}
	return Celsius
}

// Convert turns a normalized sensor reading (0..1 of a 3.3V reference) into
// whole degrees. The sensor outputs 10mV per degree Celsius. Fahrenheit is
// derived from the untruncated Celsius value and truncated toward zero.
func Convert(fraction float64, unit Unit) int {
	c := fraction * 3300.0 / 10.0
	if unit == Fahrenheit {
		return int(c*(9.0/5.0)) + 32
	}
	return int(c)
}

// Sensor reads the analog temperature sensor.
type Sensor interface {
	// Fraction returns the reading normalized to [0, 1].
	Fraction() (float64, error)
}

// Reader reads the sensor in the unit selected by a UnitToggle.
type Reader struct {
	sensor Sensor
	toggle *UnitToggle
}

// NewReader creates a Reader.
func NewReader(sensor Sensor, toggle *UnitToggle) *Reader {
	return &Reader{sensor: sensor, toggle: toggle}
}

// Read returns the temperature and its unit letter.
func (r *Reader) Read() (int, byte, error) {
	f, err := r.sensor.Fraction()
	if err != nil {
		return 0, 0, fmt.Errorf("read sensor: %w", err)
	}
	u := r.toggle.Unit()
	return Convert(f, u), u.Letter(), nil
}
