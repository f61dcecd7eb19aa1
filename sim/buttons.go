package sim

import (
	"sync"

	"bast-security/keypad-lock/latch"
)

// Buttons simulates the active-low button port feeding a latch.Port.
type Buttons struct {
	mu    sync.Mutex
	port  *latch.Port
	level uint32
}

// NewButtons returns buttons whose lines all start released (high).
func NewButtons(port *latch.Port) *Buttons {
	b := &Buttons{port: port, level: ^uint32(0)}
	port.Handle(b.level)
	return b
}

// Press pulls bit low and runs the pin-change handler.
func (b *Buttons) Press(bit uint) {
	b.set(bit, false)
}

// Release lets bit go high and runs the pin-change handler.
func (b *Buttons) Release(bit uint) {
	b.set(bit, true)
}

// Held returns a level reader for bit suitable for latch.NewButton.
func (b *Buttons) Held(bit uint) func() bool {
	return func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.level&(1<<bit) == 0
	}
}

func (b *Buttons) set(bit uint, high bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if high {
		b.level |= 1 << bit
	} else {
		b.level &^= 1 << bit
	}
	b.port.Handle(b.level)
}
