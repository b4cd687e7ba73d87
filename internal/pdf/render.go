// Package pdf renders a resolved quotation snapshot as an A4 document.
package pdf

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/diewo77/go-quotations/internal/models"
	"github.com/diewo77/go-quotations/internal/numeric"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

const (
	pageWidth   = 210.0
	margin      = 12.0
	serialWidth = 12.0
	rowHeight   = 7.0
	qrSize      = 22.0
)

var defaultAccent = [3]int{31, 78, 121}

// Render draws q and returns the PDF bytes. q is read only.
func Render(q models.Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	r, g, b := accent(q.Company.AccentColor)

	if err := drawQR(pdf, q); err != nil {
		return nil, err
	}

	// Letterhead
	pdf.SetTextColor(r, g, b)
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 9, tr(q.Company.Name), "", 1, "L", false, 0, "")
	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{q.Company.Address, contactLine(q.Company)} {
		if line != "" {
			pdf.CellFormat(0, 4.5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)
	pdf.SetDrawColor(r, g, b)
	pdf.Line(margin, pdf.GetY(), pageWidth-margin, pdf.GetY())
	pdf.Ln(3)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 7, "QUOTATION", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(95, 5, tr("No: "+q.Number), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Date: "+q.Date), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	if len(q.Customer) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 5, "To", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, k := range slices.Sorted(maps.Keys(q.Customer)) {
			if v := q.Customer[k]; v != "" {
				pdf.CellFormat(0, 4.5, tr(v), "", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(3)
	}

	widths := columnWidths(q.Columns)

	// Item table header
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(serialWidth, rowHeight, "S.No", "1", 0, "C", true, 0, "")
	for i, c := range q.Columns {
		pdf.CellFormat(widths[i], rowHeight, tr(c.DisplayName), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 9)
	for n, it := range q.Items {
		serial := it.SerialNo
		if serial == "" {
			serial = strconv.Itoa(n + 1)
		}
		pdf.CellFormat(serialWidth, rowHeight, tr(serial), "1", 0, "C", false, 0, "")
		for i, c := range q.Columns {
			text, align := cellText(it, c.ID)
			pdf.CellFormat(widths[i], rowHeight, tr(text), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals
	pdf.Ln(2)
	labelW := pageWidth - 2*margin - 40
	totalRow := func(label string, v float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, numeric.FormatIndian(v, 2), "1", 1, "R", false, 0, "")
	}
	totalRow("Subtotal", q.Totals.Subtotal, false)
	totalRow(fmt.Sprintf("Tax (%s%%)", strconv.FormatFloat(q.TaxRate, 'f', -1, 64)), q.Totals.TaxAmount, false)
	totalRow("Grand Total", q.Totals.GrandTotal, true)

	pdf.Ln(3)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, tr(q.Totals.AmountInWords), "", "L", false)

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawQR places a code in the top right corner that identifies the
// document: company, number, date and grand total.
func drawQR(pdf *gofpdf.Fpdf, q models.Quotation) error {
	content := strings.Join([]string{
		q.Company.Name,
		q.Number,
		q.Date,
		strconv.FormatFloat(q.Totals.GrandTotal, 'f', 2, 64),
	}, "|")
	png, err := qrcode.Encode(content, qrcode.Low, 256)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("qr", pageWidth-margin-qrSize, margin, qrSize, qrSize, false, opts, 0, "")
	return nil
}

func cellText(it models.Item, columnID string) (string, string) {
	switch columnID {
	case models.KeyDescription:
		return it.Description, "L"
	case models.KeyAmount:
		return numeric.FormatIndian(it.Amount, 2), "R"
	}
	v, _ := it.Fields.Get(columnID)
	if _, ok := numeric.Parse(v); ok {
		return v, "R"
	}
	return v, "L"
}

// columnWidths gives the description column twice the share of the others.
func columnWidths(cols []models.Column) []float64 {
	avail := pageWidth - 2*margin - serialWidth
	shares := 0.0
	for _, c := range cols {
		shares += share(c)
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = avail * share(c) / shares
	}
	return out
}

func share(c models.Column) float64 {
	if c.ID == models.KeyDescription {
		return 2
	}
	return 1
}

func contactLine(c models.Company) string {
	var parts []string
	if c.Phone != "" {
		parts = append(parts, "Ph: "+c.Phone)
	}
	if c.Email != "" {
		parts = append(parts, c.Email)
	}
	if c.GSTIN != "" {
		parts = append(parts, "GSTIN: "+c.GSTIN)
	}
	return strings.Join(parts, "  |  ")
}

// accent parses "#rrggbb", falling back to the default blue.
func accent(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return defaultAccent[0], defaultAccent[1], defaultAccent[2]
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return defaultAccent[0], defaultAccent[1], defaultAccent[2]
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
