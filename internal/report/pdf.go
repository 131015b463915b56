package report

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF writes records as a table to a PDF file.
func ExportPDF(path string, records []Record) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Calculation History", true)
	p.AddPage()

	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(0, 10, "Calculation History", "", 1, "L", false, 0, "")
	p.Ln(2)

	widths := []float64{45, 35, 65, 45}
	headers := []string{"Date", "Source", "Expression", "Result"}

	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(230, 230, 230)
	for i, h := range headers {
		p.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	p.Ln(-1)

	p.SetFont("Helvetica", "", 10)
	for _, r := range records {
		row := []string{
			r.Created.Format("2006-01-02 15:04:05"),
			r.Source,
			r.Expression,
			strconv.FormatFloat(r.Result, 'g', -1, 64),
		}
		for i, cell := range row {
			p.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		p.Ln(-1)
	}

	if len(records) == 0 {
		p.SetFont("Helvetica", "I", 10)
		p.CellFormat(0, 8, "No calculations recorded.", "", 1, "L", false, 0, "")
	}

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
