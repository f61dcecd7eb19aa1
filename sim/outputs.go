package sim

import (
	"strings"
	"sync"
	"time"

	"bast-security/keypad-lock/logging"
)

// Servo logs bolt movements.
type Servo struct {
	mu    sync.Mutex
	open  bool
	Opens int
}

func (s *Servo) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open && !s.open {
		s.Opens++
	}
	s.open = open
	logging.L.Info("servo", "open", open)
}

// IsOpen reports the last commanded position.
func (s *Servo) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Lamps logs indicator changes.
type Lamps struct {
	Granted, Idle bool
}

func (l *Lamps) SetGranted(on bool) {
	if on != l.Granted {
		logging.L.Debug("lamp", "granted", on)
	}
	l.Granted = on
}

func (l *Lamps) SetIdle(on bool) {
	if on != l.Idle {
		logging.L.Debug("lamp", "idle", on)
	}
	l.Idle = on
}

// Buzzer logs buzzes instead of sounding.
type Buzzer struct{}

func (Buzzer) Buzz(d time.Duration) {
	logging.L.Debug("buzz", "for", d)
}

// Console is a two-row character display kept in memory. Each change is
// logged as the full screen.
type Console struct {
	mu       sync.Mutex
	rows     [2]string
	row, col int
}

func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = [2]string{}
	c.row, c.col = 0, 0
}

func (c *Console) SetCursor(row, col int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if row < 0 || row >= len(c.rows) {
		return
	}
	c.row, c.col = row, col
}

func (c *Console) Write(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line := c.rows[c.row]
	if len(line) < c.col {
		line += strings.Repeat(" ", c.col-len(line))
	}
	end := c.col + len(text)
	if end < len(line) {
		line = line[:c.col] + text + line[end:]
	} else {
		line = line[:c.col] + text
	}
	c.rows[c.row] = line
	c.col = end
	logging.L.Info("display", "row0", c.rows[0], "row1", c.rows[1])
}

// Row returns the text on row r.
func (c *Console) Row(r int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows[r]
}
