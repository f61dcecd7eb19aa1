package hw

import (
	"github.com/stianeikeland/go-rpio/v4"
)

// Lamps are the green (granted) and red (idle) indicator LEDs.
type Lamps struct {
	granted rpio.Pin
	idle    rpio.Pin
}

func NewLamps(granted, idle int) *Lamps {
	l := &Lamps{granted: rpio.Pin(granted), idle: rpio.Pin(idle)}
	l.granted.Output()
	l.idle.Output()
	l.granted.Low()
	l.idle.Low()
	return l
}

func (l *Lamps) SetGranted(on bool) { set(l.granted, on) }
func (l *Lamps) SetIdle(on bool)    { set(l.idle, on) }

func set(p rpio.Pin, on bool) {
	if on {
		p.High()
	} else {
		p.Low()
	}
}
