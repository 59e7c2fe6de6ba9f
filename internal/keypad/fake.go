package keypad

import "fmt"

// FakeMatrix is a test double that simulates keypad wiring: a column reads
// active only while the row of a pressed key is driven.
type FakeMatrix struct {
	// Pressed holds the keys currently held down.
	Pressed map[Position]bool

	// Driven tracks which rows are currently driven active.
	Driven [Rows]bool

	// RowWrites counts SetRow calls.
	RowWrites int

	// ColumnError, if set, is returned by Column.
	ColumnError error

	// RowError, if set, is returned by SetRow.
	RowError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeMatrix creates a FakeMatrix with no keys pressed.
func NewFakeMatrix() *FakeMatrix {
	return &FakeMatrix{Pressed: make(map[Position]bool)}
}

// Press holds down the key at p.
func (f *FakeMatrix) Press(p Position) {
	f.Pressed[p] = true
}

// PressKey holds down the key labelled k.
func (f *FakeMatrix) PressKey(k byte) {
	f.Press(PositionOf(k))
}

// Release lets go of every key.
func (f *FakeMatrix) Release() {
	f.Pressed = make(map[Position]bool)
}

// SetRow records the row level.
func (f *FakeMatrix) SetRow(row int, active bool) error {
	if f.RowError != nil {
		return f.RowError
	}
	if row < 0 || row >= Rows {
		return fmt.Errorf("row %d out of range", row)
	}
	f.RowWrites++
	f.Driven[row] = active
	return nil
}

// Column reports whether any driven row has a pressed key in col.
func (f *FakeMatrix) Column(col int) (bool, error) {
	if f.ColumnError != nil {
		return false, f.ColumnError
	}
	for row := 0; row < Rows; row++ {
		if f.Driven[row] && f.Pressed[Position{Row: row, Col: col}] {
			return true, nil
		}
	}
	return false, nil
}

// Close marks the matrix as closed.
func (f *FakeMatrix) Close() error {
	f.Closed = true
	return nil
}

// PositionOf returns the matrix position of key k, or NoKey.
func PositionOf(k byte) Position {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if KeyMap[r][c] == k {
				return Position{Row: r, Col: c}
			}
		}
	}
	return NoKey
}
