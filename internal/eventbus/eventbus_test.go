package eventbus

import (
	"testing"

	"logistics/core/events"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[events.DashboardNotification]()
	ch := bus.Subscribe()
	bus.Publish(events.DashboardNotification{Status: "DISPATCHED", TrackingID: "T-1"})
	v := <-ch
	if v.TrackingID != "T-1" {
		t.Fatalf("expected T-1 got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New[int]()
	ch := bus.Subscribe()
	for i := 0; i < 100; i++ {
		bus.Publish(i)
	}
	// Buffer is 8; the rest are dropped, and publish never stalled.
	if len(ch) != 8 {
		t.Fatalf("expected full buffer, got %d", len(ch))
	}
}

func TestBusClose(t *testing.T) {
	bus := New[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[string]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
