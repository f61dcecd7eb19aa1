// pin-reader prints every key resolved on the lock's keypad, and the
// collected code whenever '#' is pressed. It uses the pins of the lock
// configuration and is meant for checking the keypad wiring.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bast-security/keypad-lock/config"
	"bast-security/keypad-lock/hw"
	"bast-security/keypad-lock/keypad"
)

func main() {
	c, err := config.Load(nil, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := hw.Open(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer hw.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//////////For Pin Pad//////////
	//		col 1	col 2	col 3
	// row 1	1	2	3
	// row 2	4	5	6
	// row 3	7	8	9
	// row 4	*	0	#
	fmt.Println("rows", c.Pins.Rows, "columns", c.Pins.Columns)

	m := hw.NewMatrix(c.Pins.Rows, c.Pins.Columns)
	defer m.Idle()

	scanner := keypad.NewScanner(m, keypad.Timing{
		Settle:          c.Timing.Settle,
		Debounce:        c.Timing.Debounce,
		ReleasePoll:     c.Timing.ReleasePoll,
		ReleaseDebounce: c.Timing.ReleaseDebounce,
	}, nil)

	readKeys(ctx, scanner, os.Stdout)
}

// readKeys prints keys from scanner until ctx is done.
func readKeys(ctx context.Context, scanner *keypad.Scanner, out io.Writer) {
	userPin := ""
	for ctx.Err() == nil {
		key, ok := scanner.Scan()
		if !ok {
			continue
		}
		fmt.Fprintf(out, "key %c\n", key)

		switch key {
		case keypad.Terminate:
			fmt.Fprintln(out, "pin", userPin)
			userPin = ""
		case keypad.Clear:
			userPin = ""
		default:
			userPin += string(key)
		}
	}
}
