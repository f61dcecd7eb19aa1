package latch

import (
	"sync"
	"testing"
)

const (
	unlockBit   = 2
	rolloverBit = 3
	idle        = uint32(1<<unlockBit | 1<<rolloverBit)
)

func press(bit uint) uint32 { return idle &^ (1 << bit) }

func newPort() (*Port, *Latch, *Latch) {
	p := NewPort(idle)
	u, r := &Latch{}, &Latch{}
	p.Attach(unlockBit, u)
	p.Attach(rolloverBit, r)
	return p, u, r
}

func TestBounceYieldsSingleEvent(t *testing.T) {
	p, u, r := newPort()

	// The loop services a pending event once and clears the latch only after
	// it sees the line high again. Bounces arrive both before and while the
	// event is being serviced.
	serviced := 0
	levels := []uint32{
		press(unlockBit), idle, press(unlockBit), idle, press(unlockBit),
		press(unlockBit), idle, press(unlockBit), idle, idle,
	}
	inService := false
	for _, level := range levels {
		p.Handle(level)
		if u.Pending() && !inService {
			serviced++
			inService = true
		}
		if inService && level == idle && !u.Locked() {
			t.Fatalf("latch unlocked before the loop cleared it")
		}
	}
	u.Clear()

	if serviced != 1 {
		t.Fatalf("serviced %d events for one press, want 1", serviced)
	}
	if r.Pending() {
		t.Fatalf("rollover latch set by unlock line")
	}
	if u.Pending() || u.Locked() {
		t.Fatalf("latch pending=%v locked=%v after Clear", u.Pending(), u.Locked())
	}
}

func TestRearmAfterClear(t *testing.T) {
	p, u, _ := newPort()

	p.Handle(press(unlockBit))
	p.Handle(idle)
	u.Clear()

	p.Handle(press(unlockBit))
	if !u.Pending() {
		t.Fatalf("second press not latched after Clear")
	}
}

func TestRisingEdgeIgnored(t *testing.T) {
	p := NewPort(press(rolloverBit))
	r := &Latch{}
	p.Attach(rolloverBit, r)

	p.Handle(idle)
	if r.Pending() {
		t.Fatalf("low→high transition latched an event")
	}
	if p.Snapshot() != idle {
		t.Fatalf("snapshot = %b, want %b", p.Snapshot(), idle)
	}
}

func TestSimultaneousButtons(t *testing.T) {
	p, u, r := newPort()
	p.Handle(0)
	if !u.Pending() || !r.Pending() {
		t.Fatalf("both lines fell; pending unlock=%v rollover=%v", u.Pending(), r.Pending())
	}
}

func TestButtonHeld(t *testing.T) {
	down := true
	b := NewButton(&Latch{}, func() bool { return down })
	if !b.Held() {
		t.Fatalf("Held() = false while line is low")
	}
	down = false
	if b.Held() {
		t.Fatalf("Held() = true after release")
	}
}

func TestConcurrentHandlerAndConsumer(t *testing.T) {
	p, u, _ := newPort()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p.Handle(press(unlockBit))
			p.Handle(idle)
		}
	}()

	for i := 0; i < 1000; i++ {
		if u.Pending() {
			u.Clear()
		}
	}
	wg.Wait()

	if u.Pending() != u.Locked() {
		t.Fatalf("pending=%v locked=%v diverged", u.Pending(), u.Locked())
	}
}
