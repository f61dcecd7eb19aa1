package controller

import "time"

// Display is a character display with at least two rows.
type Display interface {
	Clear()
	Write(text string)
	SetCursor(row, col int)
}

// Telemetry is the line-oriented event log.
type Telemetry interface {
	SendLine(text string)
}

// Actuator moves the bolt.
type Actuator interface {
	SetOpen(open bool)
}

// Lamps drives the two indicator outputs.
type Lamps interface {
	SetGranted(on bool)
	SetIdle(on bool)
}

// Buzzer sounds for a fixed duration.
type Buzzer interface {
	Buzz(d time.Duration)
}

// Button is a latched physical button.
type Button interface {
	Pending() bool
	Held() bool
	Clear()
}

// Keys yields resolved keypad keys.
type Keys interface {
	Scan() (byte, bool)
}

// Messages shown on the display.
const (
	PromptEntry    = "Enter code:"
	PromptPrevious = "Previous code:"
	PromptNew      = "New code:"
	ShowOpen       = "OPEN"
	ShowWrong      = "WRONG CODE"
	ShowSaved      = "CODE SAVED"
	ShowLocked     = "LOCKED"

	maskGlyph = "*"
)
