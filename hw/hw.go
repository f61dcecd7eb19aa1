// Package hw drives the lock's peripherals through the Raspberry Pi GPIO
// registers. Pin numbers are BCM numbers.
package hw

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// Open maps the GPIO registers. It must be called before any other
// function of this package.
func Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("open gpio: %w", err)
	}
	return nil
}

// Close unmaps the GPIO registers.
func Close() error {
	return rpio.Close()
}
