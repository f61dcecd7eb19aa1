package hw

import (
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// HD44780 commands.
const (
	lcdClear       = 0x01
	lcdHome        = 0x02
	lcdFunction4x2 = 0x28 // 4-bit bus, 2 lines, 5x8 font
	lcdDisplayOn   = 0x0C // display on, cursor off
	lcdSetDDRAM    = 0x80

	lcdRowOffset = 0x40
)

// LCDPins are the BCM pins of a character LCD wired in 4-bit mode.
type LCDPins struct {
	RS, EN         int
	D4, D5, D6, D7 int
}

// LCD is an HD44780 compatible character display.
type LCD struct {
	rs, en rpio.Pin
	data   [4]rpio.Pin
	sleep  func(time.Duration)
}

// NewLCD configures the pins and initialises the controller in 4-bit mode.
func NewLCD(pins LCDPins) *LCD {
	l := &LCD{
		rs:    rpio.Pin(pins.RS),
		en:    rpio.Pin(pins.EN),
		data:  [4]rpio.Pin{rpio.Pin(pins.D4), rpio.Pin(pins.D5), rpio.Pin(pins.D6), rpio.Pin(pins.D7)},
		sleep: time.Sleep,
	}
	l.rs.Output()
	l.en.Output()
	for _, p := range l.data {
		p.Output()
	}

	l.sleep(50 * time.Millisecond)
	l.command(lcdHome)
	l.command(lcdFunction4x2)
	l.command(lcdDisplayOn)
	l.command(lcdClear)
	l.sleep(5 * time.Millisecond)
	return l
}

func (l *LCD) Clear() {
	l.command(lcdClear)
}

func (l *LCD) SetCursor(row, col int) {
	l.command(cursorAddress(row, col))
}

func (l *LCD) Write(text string) {
	for i := 0; i < len(text); i++ {
		l.send(text[i], true)
	}
}

func (l *LCD) command(cmd byte) {
	l.send(cmd, false)
}

// send writes val as two nibbles, high first.
func (l *LCD) send(val byte, data bool) {
	if data {
		l.rs.High()
	} else {
		l.rs.Low()
	}
	l.nibble(val >> 4)
	l.nibble(val & 0x0F)
	l.sleep(2 * time.Millisecond)
}

func (l *LCD) nibble(n byte) {
	for i, p := range l.data {
		if n&(1<<uint(i)) != 0 {
			p.High()
		} else {
			p.Low()
		}
	}
	l.en.High()
	l.sleep(time.Microsecond)
	l.en.Low()
	l.sleep(100 * time.Microsecond)
}

func cursorAddress(row, col int) byte {
	return byte(lcdSetDDRAM | (row*lcdRowOffset + col))
}
