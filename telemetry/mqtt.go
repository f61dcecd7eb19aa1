package telemetry

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig locates the broker and topic.
type MQTTConfig struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Topic    string
	QoS      byte
	Timeout  time.Duration
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes every line as one message.
type MQTT struct {
	client  publisher
	topic   string
	qos     byte
	timeout time.Duration
}

// DialMQTT connects to the broker. The client reconnects by itself after
// the first connection succeeded.
func DialMQTT(cfg MQTTConfig) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout)

	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("connect to %s: timed out after %v", cfg.Broker, cfg.Timeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}
	return newMQTT(client, cfg), nil
}

func newMQTT(p publisher, cfg MQTTConfig) *MQTT {
	return &MQTT{client: p, topic: cfg.Topic, qos: cfg.QoS, timeout: cfg.Timeout}
}

func (m *MQTT) SendLine(text string) error {
	tok := m.client.Publish(m.topic, m.qos, false, text)
	if !tok.WaitTimeout(m.timeout) {
		return fmt.Errorf("publish to %s: timed out", m.topic)
	}
	return tok.Error()
}

func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
