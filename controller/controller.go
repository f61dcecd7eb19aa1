// Package controller runs the access-control loop of the lock: it services
// the unlock and rollover buttons, turns keypad keys into code attempts and
// decides what each attempt does in the current mode.
//
// Everything except the button latches is owned by the goroutine calling
// Step or Run.
package controller

import (
	"context"
	"strings"
	"time"

	"bast-security/keypad-lock/credential"
	"bast-security/keypad-lock/keypad"
	"bast-security/keypad-lock/logging"
)

// Config wires a Controller to its collaborators. Buzzer may be nil.
type Config struct {
	Display   Display
	Telemetry Telemetry
	Actuator  Actuator
	Lamps     Lamps
	Buzzer    Buzzer
	Keys      Keys
	Unlock    Button
	Rollover  Button

	Timing Timing

	// MaxFailures consecutive rejected codes trigger a lockout of
	// Timing.LockoutPenalty. Zero disables the lockout.
	MaxFailures int

	// RevealCodes sends digits and stored codes to telemetry in clear text.
	RevealCodes bool

	// Sleep implements every dwell. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Controller is the access-control state machine.
type Controller struct {
	display   Display
	telemetry Telemetry
	actuator  Actuator
	lamps     Lamps
	buzzer    Buzzer
	keys      Keys
	unlock    Button
	rollover  Button

	timing      Timing
	maxFailures int
	reveal      bool
	sleep       func(time.Duration)

	mode     Mode
	buf      credential.Buffer
	stored   credential.Stored
	failures int
}

type silentBuzzer struct{}

func (silentBuzzer) Buzz(time.Duration) {}

// New returns a controller in VerifyEntry with no stored credential.
func New(cfg Config) *Controller {
	c := &Controller{
		display:     cfg.Display,
		telemetry:   cfg.Telemetry,
		actuator:    cfg.Actuator,
		lamps:       cfg.Lamps,
		buzzer:      cfg.Buzzer,
		keys:        cfg.Keys,
		unlock:      cfg.Unlock,
		rollover:    cfg.Rollover,
		timing:      cfg.Timing,
		maxFailures: cfg.MaxFailures,
		reveal:      cfg.RevealCodes,
		sleep:       cfg.Sleep,
		mode:        VerifyEntry,
	}
	if c.buzzer == nil {
		c.buzzer = silentBuzzer{}
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Entered returns the number of digits typed towards the next attempt.
func (c *Controller) Entered() int {
	return c.buf.Len()
}

// Stored returns the rollover credential and whether one is set.
func (c *Controller) Stored() (string, bool) {
	return c.stored.Value()
}

// Start puts the outputs in their idle state and shows the entry prompt.
func (c *Controller) Start() {
	c.actuator.SetOpen(false)
	c.lamps.SetGranted(false)
	c.lamps.SetIdle(true)

	c.send("Connection established")
	if v, ok := c.stored.Value(); ok {
		c.send("Stored code: " + c.code(v))
	} else {
		c.send("Stored code: none")
	}
	c.send("Enter code:")
	c.showPrompt()
}

// Run calls Start and then Step until ctx is done. A step in progress,
// including an open door, always runs to completion.
func (c *Controller) Run(ctx context.Context) error {
	c.Start()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.Step()
	}
}

// Step runs one iteration of the loop: the unlock button first, then the
// rollover button, then one keypad sweep.
func (c *Controller) Step() {
	c.lamps.SetIdle(true)

	if c.unlock.Pending() {
		c.serviceUnlock()
	}

	if c.rollover.Pending() {
		c.serviceRollover()
		return
	}

	key, ok := c.keys.Scan()
	if !ok {
		return
	}
	if attempt, done := c.press(key); done {
		c.submit(attempt)
	}
}

func (c *Controller) serviceUnlock() {
	c.send("Unlock button pressed")
	logging.L.Info("unlock button", "mode", c.mode)

	c.openDoor()

	// The latch stays locked until the line has read high across a full
	// guard period.
	for {
		for c.unlock.Held() {
			c.sleep(c.timing.UnlockPoll)
		}
		c.sleep(c.timing.UnlockGuard)
		if !c.unlock.Held() {
			break
		}
	}
	c.unlock.Clear()
	c.showPrompt()
}

func (c *Controller) serviceRollover() {
	c.send("Rollover requested")
	logging.L.Info("rollover requested", "from", c.mode)

	c.mode = AwaitPreviousForRollover
	c.buf.Reset()
	c.send("Enter previous code:")
	c.showPrompt()

	c.rollover.Clear()
	c.sleep(c.timing.RolloverHold)
}

// press applies one key to the entry buffer. It returns the completed
// attempt when key is the terminator.
func (c *Controller) press(key byte) (string, bool) {
	switch {
	case key == keypad.Terminate:
		attempt := c.buf.Take()
		c.sleep(c.timing.TerminateHold)
		return attempt, true
	case key == keypad.Clear:
		c.buf.Reset()
		c.showPrompt()
	case keypad.IsDigit(key):
		if c.buf.Append(key) {
			c.display.Write(maskGlyph)
			c.send(c.code(string(key)))
			c.buzzer.Buzz(c.timing.DigitChirp)
		}
	}
	return "", false
}

func (c *Controller) submit(attempt string) {
	switch c.mode {
	case VerifyEntry:
		c.verify(attempt)
	case AwaitPreviousForRollover:
		c.confirmPrevious(attempt)
	case AwaitNewForRollover:
		c.storeNew(attempt)
	}
}

func (c *Controller) verify(attempt string) {
	if !credential.Accepts(&c.stored, attempt) {
		c.reject()
		return
	}
	c.failures = 0
	c.send("Access granted")
	logging.L.Info("access granted")
	c.openDoor()
}

func (c *Controller) confirmPrevious(attempt string) {
	if !credential.Accepts(&c.stored, attempt) {
		c.mode = VerifyEntry
		c.send("Rollover cancelled")
		logging.L.Warn("rollover cancelled: previous code rejected")
		c.countFailure()
		c.send("Enter code:")
		c.showPrompt()
		return
	}
	c.failures = 0
	c.mode = AwaitNewForRollover
	c.send("Previous code accepted")
	c.send("Enter new code:")
	c.showPrompt()
}

func (c *Controller) storeNew(attempt string) {
	c.stored.Set(attempt)
	if attempt == "" {
		c.send("Code cleared")
		logging.L.Warn("empty code submitted, stored code cleared")
	} else {
		c.send("Code saved: " + c.code(attempt))
		logging.L.Info("stored code updated")
	}

	c.display.Clear()
	c.display.Write(ShowSaved)
	c.sleep(c.timing.SavedHold)

	c.mode = VerifyEntry
	c.send("Enter code:")
	c.showPrompt()
}

func (c *Controller) reject() {
	c.display.Clear()
	c.display.Write(ShowWrong)
	c.send("Wrong code, try again")
	logging.L.Warn("access denied", "failures", c.failures+1)
	c.buzzer.Buzz(c.timing.FailureBuzz)
	c.sleep(c.timing.FailureHold)

	c.countFailure()
	c.send("Enter code:")
	c.showPrompt()
}

// countFailure records a rejected code and serves the lockout penalty when
// the limit is reached.
func (c *Controller) countFailure() {
	c.failures++
	if c.maxFailures <= 0 || c.failures < c.maxFailures {
		return
	}
	c.failures = 0
	c.display.Clear()
	c.display.Write(ShowLocked)
	c.send("Too many failures, keypad locked")
	logging.L.Warn("keypad locked", "penalty", c.timing.LockoutPenalty)
	c.sleep(c.timing.LockoutPenalty)
}

// openDoor runs the full open, dwell, close cycle. It cannot be cut short.
func (c *Controller) openDoor() {
	c.display.Clear()
	c.display.Write(ShowOpen)
	c.lamps.SetIdle(false)
	c.lamps.SetGranted(true)

	c.actuator.SetOpen(true)
	c.send("Door opened")
	c.sleep(c.timing.Dwell)
	c.actuator.SetOpen(false)

	c.lamps.SetGranted(false)
	c.lamps.SetIdle(true)
	c.send("Door closed")
	c.showPrompt()
}

// showPrompt draws the prompt of the current mode on row 0 and one glyph
// per buffered digit on row 1.
func (c *Controller) showPrompt() {
	c.display.Clear()
	c.display.Write(c.prompt())
	c.display.SetCursor(1, 0)
	if n := c.buf.Len(); n > 0 {
		c.display.Write(strings.Repeat(maskGlyph, n))
	}
}

func (c *Controller) prompt() string {
	switch c.mode {
	case AwaitPreviousForRollover:
		return PromptPrevious
	case AwaitNewForRollover:
		return PromptNew
	}
	return PromptEntry
}

func (c *Controller) send(line string) {
	c.telemetry.SendLine(line)
}

func (c *Controller) code(v string) string {
	if c.reveal {
		return v
	}
	return credential.Mask(v)
}
