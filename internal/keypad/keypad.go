// Package keypad scans a 4x4 matrix keypad and debounces key presses.
// Row and column lines are abstracted so the scanner runs against real GPIO
// or the FakeMatrix in tests.
package keypad

import "time"

// Matrix size.
const (
	Rows = 4
	Cols = 4
)

// Default timings.
const (
	DefaultSettle   = 4 * time.Millisecond
	DefaultDebounce = 500 * time.Millisecond
)

// NullKey is returned when no new key press was accepted.
const NullKey byte = 0

// KeyMap maps matrix positions to key characters.
var KeyMap = [Rows][Cols]byte{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'P'},
	{'7', '8', '9', 'M'},
	{'*', '0', '#', 'D'},
}

// Position is a row/column on the matrix.
type Position struct {
	Row int
	Col int
}

// NoKey is the position reported when nothing is pressed.
var NoKey = Position{Row: -1, Col: -1}

// Valid reports whether p is on the matrix.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < Cols
}

// Key returns the character at p, or NullKey for NoKey.
func (p Position) Key() byte {
	if !p.Valid() {
		return NullKey
	}
	return KeyMap[p.Row][p.Col]
}

// RowDriver drives the row lines.
type RowDriver interface {
	// SetRow sets row to its active (scanning) or idle level.
	SetRow(row int, active bool) error
}

// ColumnReader reads the column lines.
type ColumnReader interface {
	// Column reports whether col is pulled to its active level.
	Column(col int) (bool, error)
}

// Lines is a full set of keypad lines.
type Lines interface {
	RowDriver
	ColumnReader
	Close() error
}

// Keypad combines a Scanner with a Debouncer.
type Keypad struct {
	scanner  *Scanner
	debounce *Debouncer
}

// New creates a Keypad scanning lines with the given settle and debounce times.
func New(lines Lines, settle, debounce time.Duration) *Keypad {
	return &Keypad{
		scanner:  NewScanner(lines, lines, settle),
		debounce: NewDebouncer(debounce),
	}
}

// NextKey scans once and returns the accepted key, or NullKey.
func (k *Keypad) NextKey(now time.Time) (byte, error) {
	pos, err := k.scanner.Poll()
	if err != nil {
		return NullKey, err
	}
	return k.debounce.Next(pos, now), nil
}
