// Package config loads the lock's settings from defaults, a YAML file,
// KEYPAD_LOCK_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName  = "keypad-lock"
	envPrefix = "keypad_lock"
	systemDir = "/etc/keypad-lock"
)

type Pins struct {
	Rows     [4]int `mapstructure:"rows" yaml:"rows"`
	Columns  [3]int `mapstructure:"columns" yaml:"columns"`
	Unlock   int    `mapstructure:"unlock_button" yaml:"unlock_button"`
	Rollover int    `mapstructure:"rollover_button" yaml:"rollover_button"`
	Servo    int    `mapstructure:"servo" yaml:"servo"`
	Granted  int    `mapstructure:"led_granted" yaml:"led_granted"`
	Idle     int    `mapstructure:"led_idle" yaml:"led_idle"`
	Buzzer   int    `mapstructure:"buzzer" yaml:"buzzer"`
}

type LCD struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	RS      int  `mapstructure:"rs" yaml:"rs"`
	EN      int  `mapstructure:"en" yaml:"en"`
	D4      int  `mapstructure:"d4" yaml:"d4"`
	D5      int  `mapstructure:"d5" yaml:"d5"`
	D6      int  `mapstructure:"d6" yaml:"d6"`
	D7      int  `mapstructure:"d7" yaml:"d7"`
}

type Servo struct {
	OpenAngle   int `mapstructure:"open_angle" yaml:"open_angle"`
	ClosedAngle int `mapstructure:"closed_angle" yaml:"closed_angle"`
	MinPulseUS  int `mapstructure:"min_pulse_us" yaml:"min_pulse_us"`
	MaxPulseUS  int `mapstructure:"max_pulse_us" yaml:"max_pulse_us"`
}

type Timing struct {
	Settle          time.Duration `mapstructure:"settle" yaml:"settle"`
	Debounce        time.Duration `mapstructure:"debounce" yaml:"debounce"`
	ReleasePoll     time.Duration `mapstructure:"release_poll" yaml:"release_poll"`
	ReleaseDebounce time.Duration `mapstructure:"release_debounce" yaml:"release_debounce"`
	ButtonPoll      time.Duration `mapstructure:"button_poll" yaml:"button_poll"`
	Dwell           time.Duration `mapstructure:"dwell" yaml:"dwell"`
	TerminateHold   time.Duration `mapstructure:"terminate_hold" yaml:"terminate_hold"`
	FailureHold     time.Duration `mapstructure:"failure_hold" yaml:"failure_hold"`
	UnlockPoll      time.Duration `mapstructure:"unlock_poll" yaml:"unlock_poll"`
	UnlockGuard     time.Duration `mapstructure:"unlock_guard" yaml:"unlock_guard"`
	RolloverHold    time.Duration `mapstructure:"rollover_hold" yaml:"rollover_hold"`
	SavedHold       time.Duration `mapstructure:"saved_hold" yaml:"saved_hold"`
	DigitChirp      time.Duration `mapstructure:"digit_chirp" yaml:"digit_chirp"`
	FailureBuzz     time.Duration `mapstructure:"failure_buzz" yaml:"failure_buzz"`
}

type Serial struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    string `mapstructure:"port" yaml:"port"`
	Baud    int    `mapstructure:"baud" yaml:"baud"`
}

type MQTT struct {
	Broker   string        `mapstructure:"broker" yaml:"broker"`
	ClientID string        `mapstructure:"client_id" yaml:"client_id"`
	Topic    string        `mapstructure:"topic" yaml:"topic"`
	QoS      int           `mapstructure:"qos" yaml:"qos"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type Telemetry struct {
	RevealCodes bool `mapstructure:"reveal_codes" yaml:"reveal_codes"`
}

type Lockout struct {
	MaxFailures int           `mapstructure:"max_failures" yaml:"max_failures"`
	Duration    time.Duration `mapstructure:"duration" yaml:"duration"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Config is the complete firmware configuration.
type Config struct {
	Simulate  bool      `mapstructure:"simulate" yaml:"simulate"`
	Pins      Pins      `mapstructure:"pins" yaml:"pins"`
	LCD       LCD       `mapstructure:"lcd" yaml:"lcd"`
	Servo     Servo     `mapstructure:"servo" yaml:"servo"`
	Timing    Timing    `mapstructure:"timing" yaml:"timing"`
	Serial    Serial    `mapstructure:"serial" yaml:"serial"`
	MQTT      MQTT      `mapstructure:"mqtt" yaml:"mqtt"`
	Telemetry Telemetry `mapstructure:"telemetry" yaml:"telemetry"`
	Lockout   Lockout   `mapstructure:"lockout" yaml:"lockout"`
	Log       Log       `mapstructure:"log" yaml:"log"`
}

// Defaults returns the stock settings keyed by their viper path.
func Defaults() map[string]any {
	return map[string]any{
		"simulate": false,

		"pins.rows":            []int{10, 3, 4, 27},
		"pins.columns":         []int{22, 9, 17},
		"pins.unlock_button":   5,
		"pins.rollover_button": 6,
		"pins.servo":           18,
		"pins.led_granted":     23,
		"pins.led_idle":        24,
		"pins.buzzer":          25,

		"lcd.enabled": false,
		"lcd.rs":      7,
		"lcd.en":      8,
		"lcd.d4":      12,
		"lcd.d5":      16,
		"lcd.d6":      20,
		"lcd.d7":      21,

		"servo.open_angle":   180,
		"servo.closed_angle": 0,
		"servo.min_pulse_us": 1000,
		"servo.max_pulse_us": 2000,

		"timing.settle":           "50us",
		"timing.debounce":         "30ms",
		"timing.release_poll":     "1ms",
		"timing.release_debounce": "50ms",
		"timing.button_poll":      "1ms",
		"timing.dwell":            "3s",
		"timing.terminate_hold":   "500ms",
		"timing.failure_hold":     "1s",
		"timing.unlock_poll":      "10ms",
		"timing.unlock_guard":     "200ms",
		"timing.rollover_hold":    "1s",
		"timing.saved_hold":       "1s",
		"timing.digit_chirp":      "20ms",
		"timing.failure_buzz":     "300ms",

		"serial.enabled": true,
		"serial.port":    "/dev/serial0",
		"serial.baud":    9600,

		"mqtt.broker":    "",
		"mqtt.client_id": "keypad-lock",
		"mqtt.topic":     "keypad-lock/telemetry",
		"mqtt.qos":       0,
		"mqtt.timeout":   "2s",

		"telemetry.reveal_codes": false,

		"lockout.max_failures": 0,
		"lockout.duration":     "30s",

		"log.level": "info",
	}
}

// Load builds a Config. An explicit path must exist; otherwise the file is
// searched for in /etc/keypad-lock, the user config directory and the
// working directory, and a missing file is not an error. flags may be nil.
func Load(flags *pflag.FlagSet, path string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(systemDir)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, fileName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return c, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Servo.MinPulseUS <= 0 || c.Servo.MaxPulseUS <= c.Servo.MinPulseUS {
		return fmt.Errorf("invalid servo pulse range %d..%d", c.Servo.MinPulseUS, c.Servo.MaxPulseUS)
	}
	if c.Timing.Dwell <= 0 {
		return fmt.Errorf("invalid timing.dwell: must be > 0")
	}
	if c.Timing.ButtonPoll <= 0 {
		return fmt.Errorf("invalid timing.button_poll: must be > 0")
	}
	if c.Lockout.MaxFailures < 0 {
		return fmt.Errorf("invalid lockout.max_failures: must be >= 0")
	}
	if c.Lockout.MaxFailures > 0 && c.Lockout.Duration <= 0 {
		return fmt.Errorf("invalid lockout.duration: must be > 0 when lockout is enabled")
	}
	if c.Serial.Enabled && !c.Simulate && c.Serial.Baud <= 0 {
		return fmt.Errorf("invalid serial.baud %d", c.Serial.Baud)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid mqtt.qos %d", c.MQTT.QoS)
	}
	if c.Pins.Unlock == c.Pins.Rollover {
		return fmt.Errorf("unlock and rollover buttons share pin %d", c.Pins.Unlock)
	}
	return nil
}

// WriteFile stores c as YAML at path, creating the directory.
func WriteFile(c *Config, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
