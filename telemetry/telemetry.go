// Package telemetry carries the lock's line-oriented event log to its
// outputs: the serial console, an MQTT topic and the process log.
package telemetry

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"bast-security/keypad-lock/logging"
)

// Sink accepts one line of telemetry.
type Sink interface {
	SendLine(text string) error
}

// Writer writes each line followed by CRLF.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) SendLine(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(w.w, text+"\r\n")
	return err
}

// Serial is a Writer on a UART.
type Serial struct {
	*Writer
	port serial.Port
}

// OpenSerial opens name at baud, 8N1.
func OpenSerial(name string, baud int) (*Serial, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return &Serial{Writer: NewWriter(port), port: port}, nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}

// Log writes lines to the process log.
type Log struct{}

func (Log) SendLine(text string) error {
	logging.L.Info("telemetry", "line", text)
	return nil
}

type named struct {
	name string
	sink Sink
}

// Multi fans lines out to several sinks. A failing sink is logged and
// does not stop the others.
type Multi struct {
	sinks []named
}

// Add registers sink under name.
func (m *Multi) Add(name string, sink Sink) {
	m.sinks = append(m.sinks, named{name: name, sink: sink})
}

// Len returns the number of sinks.
func (m *Multi) Len() int {
	return len(m.sinks)
}

func (m *Multi) SendLine(text string) {
	for _, s := range m.sinks {
		if err := s.sink.SendLine(text); err != nil {
			logging.L.Warn("telemetry sink failed", "sink", s.name, "err", err)
		}
	}
}
