// Package waybill renders shipment waybill PDFs into a storage directory.
package waybill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"logistics/core/events"
	"logistics/logger"
)

// DefaultStorageDir is used when no directory is configured.
const DefaultStorageDir = "generated-waybills"

const placeholder = "N/A"

// Generator renders fixed-layout waybill documents. File names derive
// from the tracking id, so regenerating a waybill overwrites the
// previous file.
type Generator struct {
	dir string
	log logger.Logger
	now func() time.Time
}

// NewGenerator creates a Generator writing under dir.
func NewGenerator(dir string, log logger.Logger) *Generator {
	if dir == "" {
		dir = DefaultStorageDir
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Generator{dir: dir, log: log, now: time.Now}
}

// Dir returns the storage directory.
func (g *Generator) Dir() string { return g.dir }

// FileName returns the deterministic waybill file name for a tracking id.
func FileName(trackingID string) string {
	return "waybill_" + trackingID + ".pdf"
}

// Generate renders the waybill for the event and returns the generated
// file name. Missing origin/destination render as a placeholder rather
// than failing.
func (g *Generator) Generate(ev events.ShipmentEvent) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	origin := ev.Origin
	if origin == "" {
		origin = placeholder
	}
	dest := ev.Destination
	if dest == "" {
		dest = placeholder
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetTextColor(0, 51, 102)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "OFFICIAL WAYBILL", "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Ln(4)
	pdf.CellFormat(0, 6, "Logistics App - Shipping System", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+g.now().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, strings.Repeat("-", 50), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(0, 8, "TRACKING ID:  "+ev.TrackingID, "", 1, "L", false, 0, "")

	pdf.SetFont("Courier", "", 14)
	pdf.CellFormat(0, 7, "ORIGIN:       "+origin, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "DESTINATION:  "+dest, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("WEIGHT:       %.1f kg", ev.Weight), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "VEHICLE:      "+ev.LicensePlate, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.Ln(2)
	pdf.CellFormat(0, 6, strings.Repeat("-", 50), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "||| || ||| || |||| ||| || "+ev.TrackingID, "", 1, "L", false, 0, "")

	name := FileName(ev.TrackingID)
	path := filepath.Join(g.dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write waybill %s: %w", name, err)
	}

	g.log.Infof("waybill generated: %s", path)
	return name, nil
}

// HandleShipmentEvent is the queue-triggered render path. Render failures
// are logged and dropped; there is no acknowledgment back to the
// requester.
func (g *Generator) HandleShipmentEvent(_ context.Context, ev events.ShipmentEvent) error {
	g.log.Infof("queue event received for tracking id %s", ev.TrackingID)
	if _, err := g.Generate(ev); err != nil {
		g.log.Errorf("generate waybill for %s: %v", ev.TrackingID, err)
	}
	return nil
}

// List returns the names of all generated waybill documents, sorted.
func (g *Generator) List() ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read storage dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Open returns the path of a generated document, rejecting names that
// escape the storage directory. store.ErrNotFound semantics are left to
// the caller via os.Stat.
func (g *Generator) Open(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".pdf") {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	path := filepath.Join(g.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
