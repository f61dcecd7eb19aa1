// Package sim provides hardware-free collaborators so the firmware can run
// and be tested on a machine without GPIO.
package sim

import (
	"sync"

	"bast-security/keypad-lock/keypad"
)

// holdSamples is how many samples a simulated key stays down for. The
// scanner needs one to detect and one to confirm.
const holdSamples = 2

type position struct {
	row, col int
}

// Keypad is a keypad.Matrix that presses queued keys one at a time.
type Keypad struct {
	mu     sync.Mutex
	queue  []position
	driven int
	held   int
}

// NewKeypad returns an idle keypad.
func NewKeypad() *Keypad {
	return &Keypad{driven: -1}
}

// Type queues every key of s that exists on the keypad and returns how
// many were queued.
func (k *Keypad) Type(s string) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	n := 0
	for i := 0; i < len(s); i++ {
		if pos, ok := locate(s[i]); ok {
			k.queue = append(k.queue, pos)
			n++
		}
	}
	return n
}

// Queued returns the number of keys not yet fully pressed.
func (k *Keypad) Queued() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.queue)
}

func (k *Keypad) Drive(row int) {
	k.mu.Lock()
	k.driven = row
	k.mu.Unlock()
}

func (k *Keypad) Idle() {
	k.mu.Lock()
	k.driven = -1
	k.mu.Unlock()
}

func (k *Keypad) Sample() uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(k.queue) == 0 {
		return 0
	}
	head := k.queue[0]
	if head.row != k.driven {
		return 0
	}
	k.held++
	if k.held > holdSamples {
		k.queue = k.queue[1:]
		k.held = 0
		return 0
	}
	return 1 << head.col
}

func locate(key byte) (position, bool) {
	for r := 0; r < keypad.Rows; r++ {
		for c := 0; c < keypad.Columns; c++ {
			if keypad.Map[r][c] == key {
				return position{r, c}, true
			}
		}
	}
	return position{}, false
}
