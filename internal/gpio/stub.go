//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// CdevLines is not available on non-Linux platforms.
type CdevLines struct{}

// NewCdevLines returns an error on non-Linux platforms.
func NewCdevLines(rowPins, colPins [4]int) (*CdevLines, error) {
	return nil, errUnsupported
}

// SetRow is not implemented on non-Linux platforms.
func (l *CdevLines) SetRow(row int, active bool) error { return errUnsupported }

// Column is not implemented on non-Linux platforms.
func (l *CdevLines) Column(col int) (bool, error) { return false, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (l *CdevLines) Close() error { return nil }

// CdevEdge is not available on non-Linux platforms.
type CdevEdge struct{}

// NewCdevEdge returns an edge source whose Watch always fails.
func NewCdevEdge(pin int) *CdevEdge { return &CdevEdge{} }

// Watch returns an error on non-Linux platforms.
func (e *CdevEdge) Watch(handler func()) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (e *CdevEdge) Close() error { return nil }

// RpioLines is not available on non-Linux platforms.
type RpioLines struct{}

// NewRpioLines returns an error on non-Linux platforms.
func NewRpioLines(rowPins, colPins [4]int) (*RpioLines, error) {
	return nil, errUnsupported
}

// SetRow is not implemented on non-Linux platforms.
func (l *RpioLines) SetRow(row int, active bool) error { return errUnsupported }

// Column is not implemented on non-Linux platforms.
func (l *RpioLines) Column(col int) (bool, error) { return false, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (l *RpioLines) Close() error { return nil }
