package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ba4b0d/printquote/internal/quote"
)

// historyHeaders is the column order of the history spreadsheet.
var historyHeaders = []string{
	"Reference", "Date", "Material", "Machine", "Qty",
	"Filament (g)", "Print time (min)", "Post-pro (h)",
	"Material cost", "Power", "Depreciation", "Maintenance",
	"Coloring", "Overhead", "Extras", "Total (Toman)",
}

// ExportHistoryXLSX writes the quote history to an Excel workbook, one
// row per saved quote, newest first as stored.
func ExportHistoryXLSX(path string, records []quote.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no quotes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quotes"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDDDDD"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(historyHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", endHeader, headerStyle); err != nil {
		return err
	}

	for rowIdx, rec := range records {
		values := []interface{}{
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.MaterialLabel,
			rec.MachineName,
			rec.Request.Qty,
			rec.Request.FilamentGrams,
			rec.Request.PrintTimeMinutes,
			rec.Request.PostProHours,
			rec.Breakdown.MaterialT,
			rec.Breakdown.PowerT,
			rec.Breakdown.DownturnT,
			rec.Breakdown.MaintenanceT,
			rec.Breakdown.ColoringT,
			rec.Breakdown.OverheadT,
			rec.Breakdown.Extras,
			rec.Breakdown.Total,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	// Widen the identifying columns so labels are readable without resizing.
	if err := f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return err
	}

	return f.SaveAs(path)
}
