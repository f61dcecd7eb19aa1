package hw

import (
	"context"
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"bast-security/keypad-lock/latch"
)

// ButtonPort is a group of active-low buttons sampled as one port word:
// bit i holds the level of the i-th pin given to NewButtonPort.
type ButtonPort struct {
	pins []rpio.Pin
	port *latch.Port
}

// NewButtonPort configures pins as pulled-up inputs with edge detection.
func NewButtonPort(pins ...int) *ButtonPort {
	b := &ButtonPort{}
	for _, n := range pins {
		p := rpio.Pin(n)
		p.Input()
		p.PullUp()
		p.Detect(rpio.AnyEdge)
		b.pins = append(b.pins, p)
	}
	b.port = latch.NewPort(b.read())
	return b
}

// Port returns the latch port fed by Watch.
func (b *ButtonPort) Port() *latch.Port {
	return b.port
}

// Held returns a reader reporting whether the button on bit is pressed.
func (b *ButtonPort) Held(bit uint) func() bool {
	pin := b.pins[bit]
	return func() bool {
		return pin.Read() == rpio.Low
	}
}

// Watch stands in for the pin-change interrupt: every interval it checks
// the edge detectors and the port level and runs the port handler on any
// change. It returns when ctx is done.
func (b *ButtonPort) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := b.port.Snapshot()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		var edges uint32
		for i, p := range b.pins {
			if p.EdgeDetected() {
				edges |= 1 << uint(i)
			}
		}
		state := b.read()
		for _, word := range transitions(edges, last, state) {
			b.port.Handle(word)
		}
		last = state
	}
}

// Close turns edge detection off.
func (b *ButtonPort) Close() {
	for _, p := range b.pins {
		p.Detect(rpio.NoEdge)
	}
}

// transitions returns the port words to hand to the handler, in order, for
// one watch tick. A press shorter than the tick leaves an edge flag on a
// line that reads high both before and after; it is replayed as a low word
// so the handler still sees the falling edge.
func transitions(edges, last, state uint32) []uint32 {
	if edges == 0 && state == last {
		return nil
	}
	if missed := edges & last & state; missed != 0 {
		return []uint32{state &^ missed, state}
	}
	return []uint32{state}
}

func (b *ButtonPort) read() uint32 {
	var state uint32
	for i, p := range b.pins {
		if p.Read() == rpio.High {
			state |= 1 << uint(i)
		}
	}
	return state
}
