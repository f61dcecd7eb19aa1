package hw

import (
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// Buzzer is an active buzzer on a single output pin.
type Buzzer struct {
	pin rpio.Pin
}

func NewBuzzer(pin int) *Buzzer {
	b := &Buzzer{pin: rpio.Pin(pin)}
	b.pin.Output()
	b.pin.Low()
	return b
}

func (b *Buzzer) Buzz(dur time.Duration) {
	b.pin.High()
	time.Sleep(dur)
	b.pin.Low()
}
