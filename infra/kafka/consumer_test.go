package kafka

import (
	"context"
	"errors"
	"testing"

	"logistics/core/events"
	"logistics/logger"
)

func TestJSON_DecodesTypedEvent(t *testing.T) {
	var got events.RouteEvent
	h := JSON(logger.NopLogger{}, func(_ context.Context, ev events.RouteEvent) error {
		got = ev
		return nil
	})
	payload := []byte(`{"origin":"Lagos","destination":"Abuja","timestamp":1700000000000}`)
	if err := h(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got.Destination != "Abuja" || got.Timestamp != 1700000000000 {
		t.Fatalf("unexpected event: %#v", got)
	}
}

func TestJSON_DropsPoisonMessages(t *testing.T) {
	called := false
	h := JSON(logger.NopLogger{}, func(context.Context, events.ShipmentEvent) error {
		called = true
		return nil
	})
	if err := h(context.Background(), []byte("not json")); err != nil {
		t.Fatalf("poison message must be dropped, got %v", err)
	}
	if called {
		t.Fatal("handler invoked for undecodable payload")
	}
}

func TestJSON_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("storage down")
	h := JSON(logger.NopLogger{}, func(context.Context, events.ShipmentEvent) error { return boom })
	if err := h(context.Background(), []byte(`{}`)); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
