package hw

import (
	"github.com/stianeikeland/go-rpio/v4"
)

const (
	servoHz    = 50
	servoCycle = 20000 // PWM counts per period, one per microsecond
)

// ServoConfig describes the bolt servo.
type ServoConfig struct {
	Pin         int // must be a PWM capable pin (12, 13, 18 or 19)
	OpenAngle   int
	ClosedAngle int
	MinPulseUS  int // pulse width at 0 degrees
	MaxPulseUS  int // pulse width at 180 degrees
}

// Servo positions the bolt with hardware PWM.
type Servo struct {
	pin rpio.Pin
	cfg ServoConfig
}

// NewServo configures the PWM pin and moves the bolt to closed.
func NewServo(cfg ServoConfig) *Servo {
	s := &Servo{pin: rpio.Pin(cfg.Pin), cfg: cfg}
	s.pin.Mode(rpio.Pwm)
	s.pin.Freq(servoHz * servoCycle)
	s.SetAngle(cfg.ClosedAngle)
	return s
}

// SetAngle moves the servo to degrees, clamped to 0..180.
func (s *Servo) SetAngle(degrees int) {
	s.pin.DutyCycle(uint32(pulseWidth(s.cfg, degrees)), servoCycle)
}

// SetOpen moves the bolt to the open or closed angle.
func (s *Servo) SetOpen(open bool) {
	if open {
		s.SetAngle(s.cfg.OpenAngle)
	} else {
		s.SetAngle(s.cfg.ClosedAngle)
	}
}

// pulseWidth maps an angle linearly onto the configured pulse range.
func pulseWidth(cfg ServoConfig, degrees int) int {
	if degrees < 0 {
		degrees = 0
	}
	if degrees > 180 {
		degrees = 180
	}
	return cfg.MinPulseUS + degrees*(cfg.MaxPulseUS-cfg.MinPulseUS)/180
}
