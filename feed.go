package main

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"bast-security/keypad-lock/logging"
	"bast-security/keypad-lock/sim"
)

// feed reads simulated input lines from a helper process, or from stdin
// when no helper is configured.
type feed struct {
	command  *exec.Cmd
	callback feedCallback
	source   io.ReadCloser
}

type feedCallback func(string)

func startFeed(name string, args []string, cb feedCallback) (*feed, error) {
	f := &feed{callback: cb}

	if name == "" {
		f.source = os.Stdin
	} else {
		var err error
		f.command = exec.Command(name, args...)
		f.source, err = f.command.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := f.command.Start(); err != nil {
			return nil, err
		}
	}

	go func() {
		in := bufio.NewScanner(f.source)
		for in.Scan() {
			f.callback(in.Text())
		}
		if err := in.Err(); err != nil {
			logging.Errorf("feed: %v", err)
		} else {
			logging.Infof("feed reached EOF")
		}
	}()

	return f, nil
}

func (f *feed) stop() error {
	if f.command == nil || f.command.Process == nil {
		return nil
	}
	return f.command.Process.Signal(os.Interrupt)
}

// simInput turns feed lines into simulated presses: 'u' is the unlock
// button, 'r' the rollover button, anything else is typed on the keypad.
type simInput struct {
	keys    *sim.Keypad
	buttons *sim.Buttons
	hold    time.Duration
}

func (s *simInput) line(text string) {
	for _, c := range strings.TrimSpace(text) {
		switch c {
		case 'u', 'U':
			s.press(unlockBit)
		case 'r', 'R':
			s.press(rolloverBit)
		default:
			s.keys.Type(string(c))
		}
	}
}

func (s *simInput) press(bit uint) {
	s.buttons.Press(bit)
	time.AfterFunc(s.hold, func() { s.buttons.Release(bit) })
}
