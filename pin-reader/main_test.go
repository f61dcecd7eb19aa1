package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"bast-security/keypad-lock/keypad"
	"bast-security/keypad-lock/sim"
)

func TestReadKeysStopsOnCancel(t *testing.T) {
	k := sim.NewKeypad()
	k.Type("9*12#")
	scanner := keypad.NewScanner(k, keypad.DefaultTiming, func(time.Duration) {})

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan struct{})
	go func() {
		defer close(done)
		readKeys(ctx, scanner, &out)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for k.Queued() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("readKeys did not return after cancel")
	}
	if !strings.Contains(out.String(), "pin 12\n") {
		t.Fatalf("output = %q, want collected pin 12", out.String())
	}
}
