package telemetry

import (
	"bytes"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func TestWriterAppendsCRLF(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.SendLine("Door opened"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if err := w.SendLine("Door closed"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if got := buf.String(); got != "Door opened\r\nDoor closed\r\n" {
		t.Fatalf("output = %q", got)
	}
}

type failingSink struct{ calls int }

func (f *failingSink) SendLine(string) error {
	f.calls++
	return errors.New("port gone")
}

func TestMultiContinuesPastFailure(t *testing.T) {
	var buf bytes.Buffer
	bad := &failingSink{}
	var m Multi
	m.Add("bad", bad)
	m.Add("good", NewWriter(&buf))

	m.SendLine("Access granted")
	if bad.calls != 1 {
		t.Fatalf("failing sink called %d times", bad.calls)
	}
	if buf.String() != "Access granted\r\n" {
		t.Fatalf("good sink got %q", buf.String())
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d", m.Len())
	}
}

type fakeToken struct {
	done chan struct{}
	err  error
}

func finished(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool { <-t.done; return true }
func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}
func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type fakeBroker struct {
	topics   []string
	payloads []interface{}
	token    mqtt.Token
	closed   bool
}

func (b *fakeBroker) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	b.topics = append(b.topics, topic)
	b.payloads = append(b.payloads, payload)
	return b.token
}

func (b *fakeBroker) Disconnect(uint) { b.closed = true }

func TestMQTTPublishesLine(t *testing.T) {
	b := &fakeBroker{token: finished(nil)}
	m := newMQTT(b, MQTTConfig{Topic: "door/front/telemetry", Timeout: time.Second})

	if err := m.SendLine("Rollover requested"); err != nil {
		t.Fatalf("SendLine: %v", err)
	}
	if len(b.topics) != 1 || b.topics[0] != "door/front/telemetry" || b.payloads[0] != "Rollover requested" {
		t.Fatalf("published %v %v", b.topics, b.payloads)
	}
	m.Close()
	if !b.closed {
		t.Fatalf("Close did not disconnect")
	}
}

func TestMQTTReportsPublishErrors(t *testing.T) {
	b := &fakeBroker{token: finished(errors.New("not connected"))}
	m := newMQTT(b, MQTTConfig{Topic: "t", Timeout: time.Second})
	if err := m.SendLine("x"); err == nil {
		t.Fatalf("expected publish error")
	}

	b.token = &fakeToken{done: make(chan struct{})}
	m = newMQTT(b, MQTTConfig{Topic: "t", Timeout: 10 * time.Millisecond})
	if err := m.SendLine("x"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
