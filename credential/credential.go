// Package credential holds the code entry buffer and the accepted codes.
package credential

import "strings"

// Size is the number of digits in a code.
const Size = 4

// Override is always accepted and never changes.
const Override = "1234"

// Buffer accumulates the digits typed since the last clear or terminate.
// Digits beyond Size are dropped.
type Buffer struct {
	digits [Size]byte
	n      int
}

// Append adds d to the buffer and reports whether it was kept.
func (b *Buffer) Append(d byte) bool {
	if b.n >= Size {
		return false
	}
	b.digits[b.n] = d
	b.n++
	return true
}

// Len returns the number of digits held.
func (b *Buffer) Len() int {
	return b.n
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.n = 0
}

// Take returns the digits held and empties the buffer.
func (b *Buffer) Take() string {
	s := string(b.digits[:b.n])
	b.n = 0
	return s
}

// Stored is the rollover credential. The zero value is unset and matches
// nothing, not even an empty attempt.
type Stored struct {
	value string
	set   bool
}

// Set replaces the stored credential. An empty value leaves it unset.
func (s *Stored) Set(v string) {
	s.value = v
	s.set = v != ""
}

// IsSet reports whether a rollover credential has been stored.
func (s *Stored) IsSet() bool {
	return s.set
}

// Value returns the stored credential and whether it is set.
func (s *Stored) Value() (string, bool) {
	return s.value, s.set
}

// Matches reports whether attempt equals the stored credential.
func (s *Stored) Matches(attempt string) bool {
	return s.set && attempt == s.value
}

// Accepts reports whether attempt opens the door: it equals the override
// or a stored credential.
func Accepts(stored *Stored, attempt string) bool {
	return attempt == Override || stored.Matches(attempt)
}

// Mask returns a placeholder for code suitable for logs.
func Mask(code string) string {
	return strings.Repeat("*", len(code))
}
