package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logistics/config"
	"logistics/infra/mqtt"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Database: config.DatabaseConfig{Backend: "memory", Seed: true},
		MQTT:     mqtt.Config{Enabled: false},
	}
	cfg.HTTP.Addr = "127.0.0.1:0"
	return cfg
}

func TestNewWiresMemoryBackend(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	vehicles, err := svc.vehicles.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(vehicles) == 0 {
		t.Fatal("expected seeded vehicles")
	}

	rec := httptest.NewRecorder()
	svc.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Backend = "oracle"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
