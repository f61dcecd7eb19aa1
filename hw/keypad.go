package hw

import (
	"github.com/stianeikeland/go-rpio/v4"

	"bast-security/keypad-lock/keypad"
)

// Matrix is the keypad wired with rows as outputs and columns as pulled-up
// inputs. A row is active when driven low; a column reads low when a key
// on the active row is pressed.
type Matrix struct {
	rows [keypad.Rows]rpio.Pin
	cols [keypad.Columns]rpio.Pin
}

// NewMatrix configures the row and column pins.
func NewMatrix(rows [keypad.Rows]int, cols [keypad.Columns]int) *Matrix {
	m := &Matrix{}
	for i, n := range rows {
		m.rows[i] = rpio.Pin(n)
		m.rows[i].Output()
		m.rows[i].High()
	}
	for i, n := range cols {
		m.cols[i] = rpio.Pin(n)
		m.cols[i].Input()
		m.cols[i].PullUp()
	}
	return m
}

func (m *Matrix) Drive(row int) {
	for i, p := range m.rows {
		if i == row {
			p.Low()
		} else {
			p.High()
		}
	}
}

func (m *Matrix) Sample() uint8 {
	var mask uint8
	for i, p := range m.cols {
		if p.Read() == rpio.Low {
			mask |= 1 << i
		}
	}
	return mask
}

func (m *Matrix) Idle() {
	for _, p := range m.rows {
		p.High()
	}
}
