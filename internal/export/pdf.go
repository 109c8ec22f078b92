// Package export writes saved quotes out as customer-facing documents.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ba4b0d/printquote/internal/quote"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 20.0
	marginRight  = 20.0
	marginTop    = 20.0
	marginBottom = 20.0
	qrSize       = 28.0
)

// QRPayload is the data encoded into the quote document's QR code, used
// by the shop counter to pull the quote back up by reference.
type QRPayload struct {
	Reference string  `json:"ref"`
	CreatedAt string  `json:"created_at"`
	Total     float64 `json:"total"`
}

// ExportQuotePDF renders a single saved quote as a one-page PDF with the
// line item table and a QR code carrying the quote reference.
func ExportQuotePDF(path string, rec quote.Record) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	contentW := pageWidth - marginLeft - marginRight

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW-qrSize-4, 10, "Print Quote", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(marginLeft, marginTop+11)
	pdf.CellFormat(contentW-qrSize-4, 5, fmt.Sprintf("Reference: %s", rec.ID), "", 1, "L", false, 0, "")
	pdf.SetXY(marginLeft, marginTop+16)
	pdf.CellFormat(contentW-qrSize-4, 5, rec.CreatedAt.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if err := drawReferenceQR(pdf, rec); err != nil {
		return err
	}

	// Separator
	y := marginTop + qrSize + 6
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.4)
	pdf.Line(marginLeft, y, pageWidth-marginRight, y)
	y += 6

	// Job details
	details := []struct {
		label string
		value string
	}{
		{"Material", tr(rec.MaterialLabel)},
		{"Machine", tr(rec.MachineName)},
		{"Quantity", fmt.Sprintf("%d", rec.Request.Qty)},
		{"Filament", fmt.Sprintf("%.1f g", rec.Request.FilamentGrams)},
		{"Print time", tr(quote.FormatDuration(rec.Request.PrintTimeMinutes))},
	}
	if rec.Request.PostProHours > 0 {
		details = append(details, struct {
			label string
			value string
		}{"Post-processing", fmt.Sprintf("%.1f h", rec.Request.PostProHours)})
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, d := range details {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(45, 6, d.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW-45, 6, d.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 6.5
	}
	y += 6

	// Cost table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentW, 7, "Cost Breakdown", "", 0, "L", false, 0, "")
	y += 9

	lineW := contentW * 0.6
	amountW := contentW - lineW

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(lineW, 6, "Line", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountW, 6, "Amount (Toman)", "1", 0, "R", true, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, line := range rec.Breakdown.Lines() {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(lineW, 6, line.Name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(amountW, 6, fmt.Sprintf("%.0f", line.Amount), "1", 0, "R", true, 0, "")
		y += 6
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(220, 230, 245)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(lineW, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(amountW, 8, fmt.Sprintf("%.0f", rec.Breakdown.Total), "1", 0, "R", true, 0, "")

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentW, 4, "Generated by PrintQuote", "", 0, "C", false, 0, "")

	return pdf.OutputFileAndClose(path)
}

// drawReferenceQR renders the reference QR code in the top-right corner.
func drawReferenceQR(pdf *fpdf.Fpdf, rec quote.Record) error {
	payload := QRPayload{
		Reference: rec.ID,
		CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Total:     rec.Breakdown.Total,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal QR payload: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_" + rec.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}
