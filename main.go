// keypad-lock is the firmware of the keypad door lock: it reads codes from a
// 4x3 matrix keypad, opens the bolt for the override or the stored code,
// and lets an operator replace the stored code with the rollover button.
// A second button opens the door unconditionally.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bast-security/keypad-lock/config"
	"bast-security/keypad-lock/controller"
	"bast-security/keypad-lock/keypad"
	"bast-security/keypad-lock/logging"
	"bast-security/keypad-lock/telemetry"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		feedCmd string
	)

	cmd := &cobra.Command{
		Use:           "keypad-lock",
		Short:         "Keypad door lock controller",
		Version:       version,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, c, feedCmd, args)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is /etc/keypad-lock/keypad-lock.yaml or ./keypad-lock.yaml)")
	cmd.Flags().Bool("simulate", false, "run without GPIO, reading keys from stdin or --feed")
	cmd.Flags().StringVar(&feedCmd, "feed", "", "in simulation, command whose output lines are typed on the keypad")
	cmd.Flags().String("log.level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().String("serial.port", "/dev/serial0", "serial port for the telemetry log")
	cmd.Flags().String("mqtt.broker", "", "MQTT broker URL for telemetry (disabled when empty)")

	cmd.AddCommand(newInitConfigCmd())
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(nil, "")
			if err != nil {
				return err
			}
			if err := config.WriteFile(&c, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "keypad-lock.yaml", "destination file")
	return cmd
}

func run(ctx context.Context, c config.Config, feedCmd string, feedArgs []string) error {
	if err := logging.SetLevel(c.Log.Level); err != nil {
		return err
	}

	tel, closeTel, err := openTelemetry(c)
	if err != nil {
		return err
	}
	defer closeTel()

	var dev *devices
	if c.Simulate {
		logging.Infof("simulation mode, type keys and 'u'/'r' for the buttons")
		dev, err = simDevices(feedCmd, feedArgs)
	} else {
		dev, err = gpioDevices(ctx, c)
	}
	if err != nil {
		return err
	}
	defer dev.close()

	ctrl := controller.New(controller.Config{
		Display:   dev.display,
		Telemetry: tel,
		Actuator:  dev.actuator,
		Lamps:     dev.lamps,
		Buzzer:    dev.buzzer,
		Keys: keypad.NewScanner(dev.matrix, keypad.Timing{
			Settle:          c.Timing.Settle,
			Debounce:        c.Timing.Debounce,
			ReleasePoll:     c.Timing.ReleasePoll,
			ReleaseDebounce: c.Timing.ReleaseDebounce,
		}, nil),
		Unlock:      dev.unlock,
		Rollover:    dev.rollover,
		Timing:      controllerTiming(c),
		MaxFailures: c.Lockout.MaxFailures,
		RevealCodes: c.Telemetry.RevealCodes,
	})

	logging.L.Info("controller started", "version", version, "simulate", c.Simulate, "sinks", tel.Len())
	// Run only returns once ctx is done.
	err = ctrl.Run(ctx)
	logging.L.Info("controller stopped", "reason", err)
	return nil
}

func controllerTiming(c config.Config) controller.Timing {
	return controller.Timing{
		Dwell:          c.Timing.Dwell,
		TerminateHold:  c.Timing.TerminateHold,
		FailureHold:    c.Timing.FailureHold,
		UnlockPoll:     c.Timing.UnlockPoll,
		UnlockGuard:    c.Timing.UnlockGuard,
		RolloverHold:   c.Timing.RolloverHold,
		SavedHold:      c.Timing.SavedHold,
		DigitChirp:     c.Timing.DigitChirp,
		FailureBuzz:    c.Timing.FailureBuzz,
		LockoutPenalty: c.Lockout.Duration,
	}
}

// openTelemetry builds the sink set: the process log always, the serial
// port on hardware, and MQTT when a broker is configured.
func openTelemetry(c config.Config) (*telemetry.Multi, func(), error) {
	tel := &telemetry.Multi{}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	tel.Add("log", telemetry.Log{})

	if c.Serial.Enabled && !c.Simulate {
		s, err := telemetry.OpenSerial(c.Serial.Port, c.Serial.Baud)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { s.Close() })
		tel.Add("serial", s)
	}

	if c.MQTT.Broker != "" {
		m, err := telemetry.DialMQTT(telemetry.MQTTConfig{
			Broker:   c.MQTT.Broker,
			ClientID: c.MQTT.ClientID,
			Topic:    c.MQTT.Topic,
			QoS:      byte(c.MQTT.QoS),
			Timeout:  c.MQTT.Timeout,
		})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, m.Close)
		tel.Add("mqtt", m)
	}

	return tel, closeAll, nil
}
