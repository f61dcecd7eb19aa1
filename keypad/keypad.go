// Package keypad resolves presses on a 4x3 matrix keypad.
//
//	        col 1  col 2  col 3
//	row 1     1      2      3
//	row 2     4      5      6
//	row 3     7      8      9
//	row 4     *      0      #
package keypad

import (
	"math/bits"
	"time"
)

const (
	Rows    = 4
	Columns = 3

	Clear     = '*'
	Terminate = '#'
)

// Map is the fixed key layout.
var Map = [Rows][Columns]byte{
	{'1', '2', '3'},
	{'4', '5', '6'},
	{'7', '8', '9'},
	{'*', '0', '#'},
}

// IsDigit reports whether key is one of 0-9.
func IsDigit(key byte) bool {
	return key >= '0' && key <= '9'
}

// Matrix is the electrical side of the keypad.
type Matrix interface {
	// Drive makes row the only active row.
	Drive(row int)
	// Sample returns a bitmask of the columns reading active on the driven row.
	Sample() uint8
	// Idle deactivates all rows.
	Idle()
}

// Timing holds the scanner delays.
type Timing struct {
	Settle          time.Duration // after driving a row, before sampling
	Debounce        time.Duration // between first detection and confirmation
	ReleasePoll     time.Duration // while waiting for the key to be let go
	ReleaseDebounce time.Duration // after release
}

// DefaultTiming matches the keypad's contact characteristics.
var DefaultTiming = Timing{
	Settle:          50 * time.Microsecond,
	Debounce:        30 * time.Millisecond,
	ReleasePoll:     time.Millisecond,
	ReleaseDebounce: 50 * time.Millisecond,
}

// Scanner sweeps the rows of a Matrix.
type Scanner struct {
	m      Matrix
	timing Timing
	sleep  func(time.Duration)
}

// NewScanner returns a scanner over m. A nil sleep uses time.Sleep.
func NewScanner(m Matrix, timing Timing, sleep func(time.Duration)) *Scanner {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Scanner{m: m, timing: timing, sleep: sleep}
}

// Scan performs one sweep over all rows and returns the first key found.
// A found key must read as the only active column twice, Debounce apart.
// Scan then blocks until the key is released so one press is one key.
func (s *Scanner) Scan() (byte, bool) {
	defer s.m.Idle()

	for row := 0; row < Rows; row++ {
		s.m.Drive(row)
		s.sleep(s.timing.Settle)

		col, ok := single(s.m.Sample())
		if !ok {
			continue
		}

		s.sleep(s.timing.Debounce)
		if s.m.Sample() != 1<<col {
			continue
		}

		for s.m.Sample()&(1<<col) != 0 {
			s.sleep(s.timing.ReleasePoll)
		}
		s.sleep(s.timing.ReleaseDebounce)

		return Map[row][col], true
	}
	return 0, false
}

// single returns the column index when exactly one bit is set.
func single(mask uint8) (int, bool) {
	if bits.OnesCount8(mask) != 1 {
		return 0, false
	}
	return bits.TrailingZeros8(mask), true
}
