package latch

import (
	"go.uber.org/atomic"
)

type line struct {
	mask  uint32
	latch *Latch
}

// Port watches a multi-pin input port. Bit i of a state word is the level of
// pin i (1 = high). Buttons are active low.
type Port struct {
	last  atomic.Uint32
	lines []line
}

// NewPort returns a port whose first observed state is initial.
func NewPort(initial uint32) *Port {
	p := &Port{}
	p.last.Store(initial)
	return p
}

// Attach routes falling edges on bit to l. Attach must not be called once
// Handle may run.
func (p *Port) Attach(bit uint, l *Latch) {
	p.lines = append(p.lines, line{mask: 1 << bit, latch: l})
}

// Handle is the pin-change handler. It records state as the new snapshot
// and latches every attached button whose pin went from high to low since
// the previous snapshot. It never blocks.
func (p *Port) Handle(state uint32) {
	prev := p.last.Swap(state)
	fell := prev &^ state
	if fell == 0 {
		return
	}
	for _, ln := range p.lines {
		if fell&ln.mask != 0 {
			ln.latch.trigger()
		}
	}
}

// Snapshot returns the last state seen by Handle.
func (p *Port) Snapshot() uint32 {
	return p.last.Load()
}
