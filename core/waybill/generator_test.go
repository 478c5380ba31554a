package waybill

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"logistics/core/events"
	"logistics/logger"
)

func testEvent() events.ShipmentEvent {
	return events.ShipmentEvent{
		TrackingID:   "T-1",
		Origin:       "Lagos",
		Destination:  "Abuja",
		Weight:       500,
		LicensePlate: "CJ-99-LOG",
	}
}

func TestGenerate_WritesDeterministicFile(t *testing.T) {
	g := NewGenerator(t.TempDir(), logger.NopLogger{})
	name, err := g.Generate(testEvent())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if name != "waybill_T-1.pdf" {
		t.Fatalf("unexpected name: %q", name)
	}
	info, err := os.Stat(filepath.Join(g.Dir(), name))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty document")
	}
}

func TestGenerate_RegenerateOverwrites(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil)
	first, err := g.Generate(testEvent())
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := g.Generate(testEvent())
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if first != second {
		t.Fatalf("names differ: %q vs %q", first, second)
	}
	names, err := g.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected a single document, got %v", names)
	}
}

func TestGenerate_MissingFieldsUsePlaceholder(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil)
	ev := testEvent()
	ev.Origin = ""
	ev.Destination = ""
	if _, err := g.Generate(ev); err != nil {
		t.Fatalf("generate with missing fields: %v", err)
	}
}

func TestHandleShipmentEvent_NeverErrors(t *testing.T) {
	// Point the generator at a path that cannot be a directory.
	dir := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(dir, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	g := NewGenerator(dir, logger.NopLogger{})
	if err := g.HandleShipmentEvent(context.Background(), testEvent()); err != nil {
		t.Fatalf("queue path must swallow render failures: %v", err)
	}
}

func TestList_EmptyWhenDirMissing(t *testing.T) {
	g := NewGenerator(filepath.Join(t.TempDir(), "nope"), nil)
	names, err := g.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no documents, got %v", names)
	}
}

func TestOpen_RejectsTraversal(t *testing.T) {
	g := NewGenerator(t.TempDir(), nil)
	if _, err := g.Open("../evil.pdf"); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := g.Open("notes.txt"); err == nil {
		t.Fatal("expected suffix rejection")
	}
}
