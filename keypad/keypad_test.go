package keypad

import (
	"testing"
	"time"
)

// fakeMatrix reports a scripted sequence of samples for one row.
type fakeMatrix struct {
	row     int
	driven  int
	samples []uint8
	reads   int
	idle    int
}

func (f *fakeMatrix) Drive(row int) { f.driven = row }
func (f *fakeMatrix) Idle()         { f.idle++ }

func (f *fakeMatrix) Sample() uint8 {
	if f.driven != f.row || len(f.samples) == 0 {
		return 0
	}
	f.reads++
	v := f.samples[0]
	f.samples = f.samples[1:]
	return v
}

type sleepLog []time.Duration

func (l *sleepLog) sleep(d time.Duration) { *l = append(*l, d) }

func (l sleepLog) count(d time.Duration) int {
	n := 0
	for _, v := range l {
		if v == d {
			n++
		}
	}
	return n
}

func TestScanResolvesEveryKey(t *testing.T) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			m := &fakeMatrix{row: row, samples: []uint8{1 << col, 1 << col, 0}}
			var slept sleepLog
			key, ok := NewScanner(m, DefaultTiming, slept.sleep).Scan()
			if !ok || key != Map[row][col] {
				t.Fatalf("row %d col %d: got %q ok=%v, want %q", row, col, key, ok, Map[row][col])
			}
			if m.idle != 1 {
				t.Fatalf("rows left driven after scan")
			}
		}
	}
}

func TestScanNoKey(t *testing.T) {
	m := &fakeMatrix{row: -1}
	var slept sleepLog
	if key, ok := NewScanner(m, DefaultTiming, slept.sleep).Scan(); ok {
		t.Fatalf("got key %q from idle matrix", key)
	}
	if slept.count(DefaultTiming.Settle) != Rows {
		t.Fatalf("settled %d times, want one per row", slept.count(DefaultTiming.Settle))
	}
}

func TestScanRejectsBounce(t *testing.T) {
	// Active at first sample, gone after the debounce delay.
	m := &fakeMatrix{row: 1, samples: []uint8{1 << 2, 0}}
	var slept sleepLog
	if key, ok := NewScanner(m, DefaultTiming, slept.sleep).Scan(); ok {
		t.Fatalf("bounce resolved to %q", key)
	}
}

func TestScanRejectsMultipleColumns(t *testing.T) {
	m := &fakeMatrix{row: 0, samples: []uint8{0b011}}
	var slept sleepLog
	if key, ok := NewScanner(m, DefaultTiming, slept.sleep).Scan(); ok {
		t.Fatalf("two columns resolved to %q", key)
	}

	// A second column joining during the debounce window is also rejected.
	m = &fakeMatrix{row: 0, samples: []uint8{0b001, 0b101}}
	if key, ok := NewScanner(m, DefaultTiming, slept.sleep).Scan(); ok {
		t.Fatalf("conflict after debounce resolved to %q", key)
	}
}

func TestScanWaitsForRelease(t *testing.T) {
	m := &fakeMatrix{row: 3, samples: []uint8{1 << 2, 1 << 2, 1 << 2, 1 << 2, 1 << 2, 0}}
	var slept sleepLog
	key, ok := NewScanner(m, DefaultTiming, slept.sleep).Scan()
	if !ok || key != Terminate {
		t.Fatalf("got %q ok=%v, want '#'", key, ok)
	}
	if got := slept.count(DefaultTiming.ReleasePoll); got != 3 {
		t.Fatalf("release polled %d times, want 3", got)
	}
	if len(m.samples) != 0 {
		t.Fatalf("scan returned before release")
	}
}

func TestIsDigit(t *testing.T) {
	for _, k := range []byte("0123456789") {
		if !IsDigit(k) {
			t.Fatalf("IsDigit(%q) = false", k)
		}
	}
	if IsDigit(Clear) || IsDigit(Terminate) {
		t.Fatalf("control keys reported as digits")
	}
}
