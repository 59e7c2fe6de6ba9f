package keypad

import (
	"fmt"
	"time"
)

// Scanner polls the matrix one row at a time.
type Scanner struct {
	rows   RowDriver
	cols   ColumnReader
	settle time.Duration
	sleep  func(time.Duration)
}

// NewScanner creates a Scanner that waits settle before and after reading
// the columns of each driven row.
func NewScanner(rows RowDriver, cols ColumnReader, settle time.Duration) *Scanner {
	return &Scanner{
		rows:   rows,
		cols:   cols,
		settle: settle,
		sleep:  time.Sleep,
	}
}

// Poll drives each row in turn and returns the first active column found.
// It returns NoKey if nothing is pressed. The driven row is always restored
// to idle before Poll returns.
func (s *Scanner) Poll() (Position, error) {
	for row := 0; row < Rows; row++ {
		col, err := s.scanRow(row)
		if err != nil {
			return NoKey, err
		}
		if col >= 0 {
			return Position{Row: row, Col: col}, nil
		}
	}
	return NoKey, nil
}

func (s *Scanner) scanRow(row int) (col int, err error) {
	if err := s.rows.SetRow(row, true); err != nil {
		return -1, fmt.Errorf("drive row %d: %w", row, err)
	}
	defer func() {
		if rerr := s.rows.SetRow(row, false); rerr != nil && err == nil {
			col, err = -1, fmt.Errorf("release row %d: %w", row, rerr)
		}
	}()

	s.sleep(s.settle)
	col = -1
	for c := 0; c < Cols; c++ {
		active, err := s.cols.Column(c)
		if err != nil {
			return -1, fmt.Errorf("read column %d: %w", c, err)
		}
		if active {
			col = c
			break
		}
	}
	s.sleep(s.settle)
	return col, nil
}
