package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ba4b0d/printquote/internal/quote"
)

func TestExportHistoryXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")

	rec := buildTestRecord()
	other := buildTestRecord()
	other.ID = "ffff0000"
	other.MaterialLabel = "سفید"

	if err := ExportHistoryXLSX(path, []quote.Record{rec, other}); err != nil {
		t.Fatalf("ExportHistoryXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Quotes")
	if err != nil {
		t.Fatalf("cannot read Quotes sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Reference" {
		t.Errorf("expected header row, got %v", rows[0])
	}
	if rows[1][0] != "a1b2c3d4" {
		t.Errorf("expected first record reference, got %s", rows[1][0])
	}
	if rows[2][2] != "سفید" {
		t.Errorf("expected material label preserved, got %s", rows[2][2])
	}
	if rows[1][len(historyHeaders)-1] != "90600" {
		t.Errorf("expected total in last column, got %s", rows[1][len(historyHeaders)-1])
	}
}

func TestExportHistoryXLSX_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")

	if err := ExportHistoryXLSX(path, nil); err == nil {
		t.Fatal("expected error for empty history, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for empty history")
	}
}
