// Package display writes text frames to the character panel.
// Render clears the panel and writes the whole frame in one call, so
// rendering the same frame twice leaves the panel unchanged.
package display

import (
	"fmt"
	"strings"
)

// Panel geometry.
const (
	Rows = 2
	Cols = 16
)

// Output renders frames.
type Output interface {
	Render(frame string) error
	Close() error
}

// TextDevice is the subset of a periph.io text display that Panel drives.
// Both the HD44780 and SerLCD drivers satisfy it.
type TextDevice interface {
	Clear() error
	MinRow() int
	MinCol() int
	MoveTo(row, col int) error
	WriteString(text string) (int, error)
	Halt() error
}

// Panel renders frames on a TextDevice.
type Panel struct {
	dev TextDevice
}

// NewPanel wraps dev.
func NewPanel(dev TextDevice) *Panel {
	return &Panel{dev: dev}
}

// Render clears the panel and writes frame from the top-left corner.
func (p *Panel) Render(frame string) error {
	if err := p.dev.Clear(); err != nil {
		return fmt.Errorf("display: clear: %w", err)
	}
	for i, line := range Lines(frame) {
		if err := p.dev.MoveTo(p.dev.MinRow()+i, p.dev.MinCol()); err != nil {
			return fmt.Errorf("display: move to row %d: %w", i, err)
		}
		if _, err := p.dev.WriteString(line); err != nil {
			return fmt.Errorf("display: write: %w", err)
		}
	}
	return nil
}

// Close blanks the panel and releases the device.
func (p *Panel) Close() error {
	return p.dev.Halt()
}

// Lines splits a frame into at most Rows panel lines of Cols characters.
// Newlines force a line break; anything past the last line is dropped.
func Lines(frame string) []string {
	var lines []string
	for _, part := range strings.Split(frame, "\n") {
		for {
			if len(lines) == Rows {
				return lines
			}
			if len(part) <= Cols {
				lines = append(lines, part)
				break
			}
			lines = append(lines, part[:Cols])
			part = part[Cols:]
		}
	}
	return lines
}
