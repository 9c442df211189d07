package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/phpdave11/gofpdf"
)

// column widths in mm on A4 landscape
var pdfWidths = []float64{45, 32, 32, 32, 28, 32, 32, 30}

// WritePDF saves the table as a one-page landscape report.
func (t Table) WritePDF(path, title string) error {
	if title == "" {
		title = "Tensile Test Summary"
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Specimens: %d", len(t.Rows)))
	pdf.Ln(10)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		pdf.CellFormat(pdfWidths[i], 8, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range t.Rows {
		for i, v := range r.Strings() {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(pdfWidths[i], 7, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, "Stresses in MPa, strains dimensionless. Rp0.2 = 0.2% offset yield strength.")

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return pdf.OutputFileAndClose(path)
}
