package hw

import "testing"

func TestPulseWidth(t *testing.T) {
	cfg := ServoConfig{MinPulseUS: 1000, MaxPulseUS: 2000}
	tests := []struct {
		deg, want int
	}{
		{0, 1000},
		{90, 1500},
		{180, 2000},
		{-10, 1000},
		{270, 2000},
	}
	for _, tt := range tests {
		if got := pulseWidth(cfg, tt.deg); got != tt.want {
			t.Fatalf("pulseWidth(%d) = %d, want %d", tt.deg, got, tt.want)
		}
	}
}

func TestCursorAddress(t *testing.T) {
	if got := cursorAddress(0, 0); got != 0x80 {
		t.Fatalf("row 0 = %#x", got)
	}
	if got := cursorAddress(1, 0); got != 0xC0 {
		t.Fatalf("row 1 = %#x", got)
	}
	if got := cursorAddress(1, 5); got != 0xC5 {
		t.Fatalf("row 1 col 5 = %#x", got)
	}
}

func TestTransitions(t *testing.T) {
	const (
		high = uint32(0b11)
		b0   = uint32(0b01)
		b1   = uint32(0b10)
	)
	tests := []struct {
		name               string
		edges, last, state uint32
		want               []uint32
	}{
		{"quiet", 0, high, high, nil},
		{"press seen", b0, high, high &^ b0, []uint32{high &^ b0}},
		{"release seen", b0, high &^ b0, high, []uint32{high}},
		{"level change without edge flag", 0, high, high &^ b1, []uint32{high &^ b1}},
		{"short press replayed", b0, high, high, []uint32{high &^ b0, high}},
		{"short press on both lines", b0 | b1, high, high, []uint32{0, high}},
		{"short press beside held line", b1, high &^ b0, high &^ b0, []uint32{0, high &^ b0}},
		{"bounce on held line", b0, high &^ b0, high &^ b0, []uint32{high &^ b0}},
	}
	for _, tt := range tests {
		got := transitions(tt.edges, tt.last, tt.state)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: transitions = %v, want %v", tt.name, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: transitions = %v, want %v", tt.name, got, tt.want)
			}
		}
	}
}
