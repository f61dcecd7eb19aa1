// Package latch hands button presses from the pin-change handler to the
// polling loop.
//
// Ownership is split by direction: the handler side (Port.Handle) only ever
// sets a latch, the loop side (Latch.Clear) only ever clears it. A latch stays
// locked from the first falling edge until the loop has seen the line go back
// high, so switch bounce produces one event per physical press.
package latch

import (
	"go.uber.org/atomic"
)

// Latch is the pending-event state of one physical button.
type Latch struct {
	pending atomic.Bool
	locked  atomic.Bool
}

// trigger is called from the handler on a high→low transition. It reports
// whether a new event was latched.
func (l *Latch) trigger() bool {
	if l.pending.Load() {
		return false
	}
	if !l.locked.CompareAndSwap(false, true) {
		return false
	}
	l.pending.Store(true)
	return true
}

// Pending reports whether an event is waiting to be serviced.
func (l *Latch) Pending() bool {
	return l.pending.Load()
}

// Locked reports whether the latch is refusing new edges.
func (l *Latch) Locked() bool {
	return l.locked.Load()
}

// Clear consumes the event and re-arms the latch. Only the polling loop
// calls it, after it decided the press has been handled.
func (l *Latch) Clear() {
	l.pending.Store(false)
	l.locked.Store(false)
}

// Button pairs a latch with a reader for the live level of its line.
type Button struct {
	*Latch
	held func() bool
}

// NewButton returns a button whose Held reports the value of held.
// held must return true while the active-low line is pulled low.
func NewButton(l *Latch, held func() bool) *Button {
	return &Button{Latch: l, held: held}
}

// Held reports whether the physical button is currently pressed.
func (b *Button) Held() bool {
	return b.held()
}
