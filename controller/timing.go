package controller

import "time"

// Timing holds the blocking delays of the controller. Each one is a dwell:
// the loop takes no action until it has passed, though button latches keep
// recording presses.
type Timing struct {
	Dwell          time.Duration // door held open
	TerminateHold  time.Duration // after '#'
	FailureHold    time.Duration // failure message on screen
	UnlockPoll     time.Duration // while waiting for the unlock button release
	UnlockGuard    time.Duration // after the unlock button was released
	RolloverHold   time.Duration // previous-code prompt on screen
	SavedHold      time.Duration // confirmation on screen
	DigitChirp     time.Duration
	FailureBuzz    time.Duration
	LockoutPenalty time.Duration
}

// DefaultTiming is the stock timing of the lock.
var DefaultTiming = Timing{
	Dwell:          3 * time.Second,
	TerminateHold:  500 * time.Millisecond,
	FailureHold:    time.Second,
	UnlockPoll:     10 * time.Millisecond,
	UnlockGuard:    200 * time.Millisecond,
	RolloverHold:   time.Second,
	SavedHold:      time.Second,
	DigitChirp:     20 * time.Millisecond,
	FailureBuzz:    300 * time.Millisecond,
	LockoutPenalty: 30 * time.Second,
}
