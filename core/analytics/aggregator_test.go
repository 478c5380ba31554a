package analytics

import (
	"context"
	"sync"
	"testing"

	"logistics/core/events"
	"logistics/logger"
)

func TestAggregator_CountsPerDestination(t *testing.T) {
	a := New(logger.NopLogger{})
	ctx := context.Background()
	seq := []string{"Abuja", "Lagos", "Abuja", "Kano", "Abuja"}
	for _, dest := range seq {
		if err := a.HandleRouteEvent(ctx, events.RouteEvent{Origin: "Lagos", Destination: dest}); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	stats := a.Stats()
	if stats["Abuja"] != 3 || stats["Lagos"] != 1 || stats["Kano"] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestAggregator_StatsSnapshotIsCopy(t *testing.T) {
	a := New(nil)
	_ = a.HandleRouteEvent(context.Background(), events.RouteEvent{Destination: "Abuja"})
	stats := a.Stats()
	stats["Abuja"] = 99
	if got := a.Stats()["Abuja"]; got != 1 {
		t.Fatalf("snapshot mutated internal state: %d", got)
	}
}

func TestAggregator_ConcurrentIncrements(t *testing.T) {
	a := New(logger.NopLogger{})
	ctx := context.Background()
	const workers, perWorker = 8, 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = a.HandleRouteEvent(ctx, events.RouteEvent{Destination: "Abuja"})
			}
		}()
	}
	wg.Wait()
	if got := a.Stats()["Abuja"]; got != workers*perWorker {
		t.Fatalf("expected %d got %d", workers*perWorker, got)
	}
}
