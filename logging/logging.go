// Package logging holds the process-wide logger used by the firmware.
package logging

import (
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Collaborators log through it directly
// when they want key/value pairs, or through the helpers below.
var L = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
	Prefix:          "lock",
})

// SetLevel parses a level name ("debug", "info", "warn", "error") and
// applies it to L.
func SetLevel(name string) error {
	lvl, err := clog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	L.SetLevel(lvl)
	return nil
}

// Infof formats its arguments and logs them at info level on L.
func Infof(format string, args ...any) {
	L.Info(fmt.Sprintf(format, args...))
}

// Errorf is Infof at error level.
func Errorf(format string, args ...any) {
	L.Error(fmt.Sprintf(format, args...))
}
