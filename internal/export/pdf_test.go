package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ba4b0d/printquote/internal/quote"
)

// buildTestRecord creates a realistic saved quote for testing.
func buildTestRecord() quote.Record {
	return quote.Record{
		ID:            "a1b2c3d4",
		CreatedAt:     time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		MaterialLabel: "مشکی",
		MachineName:   "Ender 3 V2",
		Request: quote.Request{
			MaterialID:       "pla_black",
			MachineID:        "m1",
			Qty:              2,
			FilamentGrams:    124.5,
			PrintTimeMinutes: 185,
			PostProHours:     0.5,
			Extras:           10000,
		},
		Breakdown: quote.Breakdown{
			MaterialT:    62250,
			PowerT:       4300,
			DownturnT:    1850,
			MaintenanceT: 1200,
			ColoringT:    3000,
			OverheadT:    8000,
			Extras:       10000,
			Total:        90600,
		},
	}
}

func TestExportQuotePDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")

	if err := ExportQuotePDF(path, buildTestRecord()); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	// One page with a QR image should be a reasonable size
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportQuotePDF_NoPostProcessing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")

	rec := buildTestRecord()
	rec.Request.PostProHours = 0

	if err := ExportQuotePDF(path, rec); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestExportQuotePDF_LongLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")

	rec := buildTestRecord()
	rec.MaterialLabel = "ابریشمی صورتی با درخشندگی بسیار زیاد و توضیحات طولانی"
	rec.MachineName = "Very Long Machine Name That Does Not Fit In One Cell At All"

	if err := ExportQuotePDF(path, rec); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}
}
