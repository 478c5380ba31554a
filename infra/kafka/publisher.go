// Package kafka adapts segmentio/kafka-go to the broker ports: a JSON
// publisher and group-based subscriptions for the consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"logistics/logger"
)

// Publisher writes JSON-encoded messages to Kafka topics. Writers are
// created lazily per topic and reused.
type Publisher struct {
	brokers []string
	log     logger.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers.
func NewPublisher(brokers []string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Publisher{brokers: brokers, log: log, writers: map[string]*kafka.Writer{}}
}

func (p *Publisher) writer(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = w
	return w
}

// Publish marshals the payload and writes it to the topic. The call
// returns once the broker accepts the message.
func (p *Publisher) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", topic, err)
	}
	if err := p.writer(topic).WriteMessages(ctx, kafka.Message{Value: data}); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.log.Debugf("published to %s: %s", topic, data)
	return nil
}

// Close closes all topic writers.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && first == nil {
			first = fmt.Errorf("close writer %s: %w", topic, err)
		}
	}
	p.writers = map[string]*kafka.Writer{}
	return first
}
