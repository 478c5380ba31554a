// Package mqtt publishes dashboard notifications over MQTT so connected
// dashboards outside this process receive dispatch updates.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"

	paho "github.com/eclipse/paho.mqtt.golang"

	"logistics/core/events"
	"logistics/logger"
)

// Config defines the connection parameters for the dashboard broadcast
// client.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "logistics-dashboard"
	}
	if c.Topic == "" {
		c.Topic = "logistics/dashboard/shipments"
	}
}

// Validate checks mandatory fields for an enabled broadcaster.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when the broadcast is enabled")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Broadcaster implements events.Notifier over an MQTT topic.
type Broadcaster struct {
	cli   pahoClient
	topic string
	qos   byte
	log   logger.Logger
}

// NewBroadcaster connects to the broker and returns a Broadcaster.
func NewBroadcaster(cfg Config, log logger.Logger) (*Broadcaster, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("mqtt connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to mqtt broker")
	}
	c := newClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &Broadcaster{cli: c, topic: cfg.Topic, qos: cfg.QoS, log: log}, nil
}

// NotifyDispatched publishes the notification JSON to the dashboard
// topic.
func (b *Broadcaster) NotifyDispatched(_ context.Context, n events.DashboardNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	token := b.cli.Publish(b.topic, b.qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	b.log.Debugf("dashboard notified: %s", payload)
	return nil
}

// Close gracefully disconnects from the broker.
func (b *Broadcaster) Close() {
	if b.cli != nil && b.cli.IsConnected() {
		b.cli.Disconnect(250)
	}
}
