package sim

import (
	"testing"
	"time"

	"bast-security/keypad-lock/keypad"
	"bast-security/keypad-lock/latch"
)

func TestKeypadThroughScanner(t *testing.T) {
	k := NewKeypad()
	if n := k.Type("12a*#"); n != 4 {
		t.Fatalf("Type queued %d keys, want 4", n)
	}
	s := keypad.NewScanner(k, keypad.DefaultTiming, func(time.Duration) {})

	var got []byte
	for i := 0; i < 10 && k.Queued() > 0; i++ {
		if key, ok := s.Scan(); ok {
			got = append(got, key)
		}
	}
	if string(got) != "12*#" {
		t.Fatalf("scanned %q, want %q", got, "12*#")
	}
}

func TestButtonsFeedPort(t *testing.T) {
	port := latch.NewPort(0)
	l := &latch.Latch{}
	port.Attach(1, l)
	b := NewButtons(port)

	held := b.Held(1)
	b.Press(1)
	if !l.Pending() || !held() {
		t.Fatalf("pending=%v held=%v after press", l.Pending(), held())
	}
	b.Release(1)
	if held() {
		t.Fatalf("held after release")
	}
}

func TestConsoleRows(t *testing.T) {
	var c Console
	c.Write("Enter code:")
	c.SetCursor(1, 0)
	c.Write("*")
	c.Write("*")
	if c.Row(0) != "Enter code:" || c.Row(1) != "**" {
		t.Fatalf("rows = %q %q", c.Row(0), c.Row(1))
	}
	c.SetCursor(0, 6)
	c.Write("CODE")
	if c.Row(0) != "Enter CODE:" {
		t.Fatalf("overwrite row 0 = %q", c.Row(0))
	}
	c.Clear()
	if c.Row(0) != "" || c.Row(1) != "" {
		t.Fatalf("Clear left text")
	}
}

func TestServoCountsOpens(t *testing.T) {
	var s Servo
	s.SetOpen(true)
	s.SetOpen(true)
	s.SetOpen(false)
	s.SetOpen(true)
	if s.Opens != 2 || !s.IsOpen() {
		t.Fatalf("opens=%d open=%v", s.Opens, s.IsOpen())
	}
}
