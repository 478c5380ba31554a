package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"logistics/logger"
)

// Handler processes one raw message. A returned error is logged; the
// message is not redelivered by this layer (the group offset has already
// advanced), matching at-least-once, best-effort consumption.
type Handler func(ctx context.Context, payload []byte) error

// SubscribeConfig names the topic and consumer group for a subscription.
type SubscribeConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Subscription is a running consumer loop. Close stops it.
type Subscription struct {
	reader *kafka.Reader
	done   chan struct{}
}

// Subscribe starts a consumer-group reader and dispatches every message
// to the handler until the context is cancelled or Close is called.
func Subscribe(ctx context.Context, cfg SubscribeConfig, h Handler, log logger.Logger) *Subscription {
	if log == nil {
		log = logger.NopLogger{}
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		StartOffset: kafka.FirstOffset,
	})
	s := &Subscription{reader: reader, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		log.Infof("consuming %s as %s", cfg.Topic, cfg.GroupID)
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
					return
				}
				log.Errorf("read %s: %v", cfg.Topic, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
					continue
				}
			}
			if err := h(ctx, msg.Value); err != nil {
				log.Errorf("handle %s message: %v", cfg.Topic, err)
			}
		}
	}()
	return s
}

// Close stops the consumer loop and waits for it to exit.
func (s *Subscription) Close() error {
	err := s.reader.Close()
	<-s.done
	return err
}

// JSON adapts a typed handler to a raw Handler. Messages that fail to
// decode are logged and dropped; redelivering a poison message would
// never succeed.
func JSON[T any](log logger.Logger, fn func(ctx context.Context, ev T) error) Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return func(ctx context.Context, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Errorf("decode %T: %v", ev, err)
			return nil
		}
		return fn(ctx, ev)
	}
}
