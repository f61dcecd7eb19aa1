package main

import (
	"context"
	"fmt"
	"time"

	"bast-security/keypad-lock/config"
	"bast-security/keypad-lock/controller"
	"bast-security/keypad-lock/hw"
	"bast-security/keypad-lock/keypad"
	"bast-security/keypad-lock/latch"
	"bast-security/keypad-lock/sim"
)

// Bits of the button port.
const (
	unlockBit   = 0
	rolloverBit = 1
)

const simButtonHold = 100 * time.Millisecond

// devices are the peripherals the controller is wired to.
type devices struct {
	display  controller.Display
	actuator controller.Actuator
	lamps    controller.Lamps
	buzzer   controller.Buzzer
	matrix   keypad.Matrix
	unlock   *latch.Button
	rollover *latch.Button
	close    func()
}

func gpioDevices(ctx context.Context, c config.Config) (*devices, error) {
	if err := hw.Open(); err != nil {
		return nil, err
	}

	buttons := hw.NewButtonPort(c.Pins.Unlock, c.Pins.Rollover)
	unlock, rollover := &latch.Latch{}, &latch.Latch{}
	buttons.Port().Attach(unlockBit, unlock)
	buttons.Port().Attach(rolloverBit, rollover)
	go buttons.Watch(ctx, c.Timing.ButtonPoll)

	d := &devices{
		actuator: hw.NewServo(hw.ServoConfig{
			Pin:         c.Pins.Servo,
			OpenAngle:   c.Servo.OpenAngle,
			ClosedAngle: c.Servo.ClosedAngle,
			MinPulseUS:  c.Servo.MinPulseUS,
			MaxPulseUS:  c.Servo.MaxPulseUS,
		}),
		lamps:    hw.NewLamps(c.Pins.Granted, c.Pins.Idle),
		buzzer:   hw.NewBuzzer(c.Pins.Buzzer),
		matrix:   hw.NewMatrix(c.Pins.Rows, c.Pins.Columns),
		unlock:   latch.NewButton(unlock, buttons.Held(unlockBit)),
		rollover: latch.NewButton(rollover, buttons.Held(rolloverBit)),
		close: func() {
			buttons.Close()
			hw.Close()
		},
	}
	if c.LCD.Enabled {
		d.display = hw.NewLCD(hw.LCDPins{
			RS: c.LCD.RS, EN: c.LCD.EN,
			D4: c.LCD.D4, D5: c.LCD.D5, D6: c.LCD.D6, D7: c.LCD.D7,
		})
	} else {
		d.display = &sim.Console{}
	}
	return d, nil
}

func simDevices(feedCmd string, feedArgs []string) (*devices, error) {
	keys := sim.NewKeypad()
	port := latch.NewPort(^uint32(0))
	unlock, rollover := &latch.Latch{}, &latch.Latch{}
	port.Attach(unlockBit, unlock)
	port.Attach(rolloverBit, rollover)
	buttons := sim.NewButtons(port)

	in := &simInput{keys: keys, buttons: buttons, hold: simButtonHold}
	f, err := startFeed(feedCmd, feedArgs, in.line)
	if err != nil {
		return nil, fmt.Errorf("start feed: %w", err)
	}

	return &devices{
		display:  &sim.Console{},
		actuator: &sim.Servo{},
		lamps:    &sim.Lamps{},
		buzzer:   sim.Buzzer{},
		matrix:   keys,
		unlock:   latch.NewButton(unlock, buttons.Held(unlockBit)),
		rollover: latch.NewButton(rollover, buttons.Held(rolloverBit)),
		close:    func() { f.stop() },
	}, nil
}
