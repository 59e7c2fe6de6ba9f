//go:build linux

package gpio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
)

// CdevLines drives the keypad through the Linux GPIO character device.
type CdevLines struct {
	chip *gpiocdev.Chip
	rows []*gpiocdev.Line
	cols []*gpiocdev.Line
}

// NewCdevLines requests the row lines as outputs (idle high) and the column
// lines as inputs with pull-up.
func NewCdevLines(rowPins, colPins [4]int) (*CdevLines, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	l := &CdevLines{chip: chip}

	for _, pin := range rowPins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(1))
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("request row pin %d: %w", pin, err)
		}
		l.rows = append(l.rows, line)
	}
	for _, pin := range colPins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("request column pin %d: %w", pin, err)
		}
		l.cols = append(l.cols, line)
	}
	return l, nil
}

// SetRow drives row low when active, high when idle.
func (l *CdevLines) SetRow(row int, active bool) error {
	v := 1
	if active {
		v = 0
	}
	if err := l.rows[row].SetValue(v); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

// Column reports whether col is pulled low.
func (l *CdevLines) Column(col int) (bool, error) {
	v, err := l.cols[col].Value()
	if err != nil {
		return false, fmt.Errorf("read column %d: %w", col, err)
	}
	return v == 0, nil
}

// Close releases GPIO resources.
// Reconfigures rows to input with pull-up before closing so no line is left
// driving the matrix.
func (l *CdevLines) Close() error {
	var errs []error

	for i, line := range l.rows {
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure row %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close row %d: %w", i, err))
		}
	}
	for i, line := range l.cols {
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close column %d: %w", i, err))
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// CdevEdge watches the unit button through the character device's edge
// events.
type CdevEdge struct {
	pin  int
	mu   sync.Mutex
	line *gpiocdev.Line
}

// NewCdevEdge prepares an edge source for pin. The line is requested by Watch.
func NewCdevEdge(pin int) *CdevEdge {
	return &CdevEdge{pin: pin}
}

// Watch requests the button line with falling-edge detection. The kernel
// delivers events to handler on the library's event goroutine.
func (e *CdevEdge) Watch(handler func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.line != nil {
		return errors.New("button handler already registered")
	}

	line, err := gpiocdev.RequestLine(Chip, e.pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { handler() }))
	if err != nil {
		return fmt.Errorf("request button pin %d: %w", e.pin, err)
	}
	e.line = line
	return nil
}

// Close releases the button line.
func (e *CdevEdge) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.line == nil {
		return nil
	}
	err := e.line.Close()
	e.line = nil
	return err
}
