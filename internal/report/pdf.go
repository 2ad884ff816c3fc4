package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin = 15.0
	pdfWidth  = 180.0 // A4 width minus margins
	pdfLineH  = 5.0
)

// PDF renders the same content as HTML as an A4 document.
func PDF(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if len(doc.Logo) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(doc.Logo))
		pdf.ImageOptions("logo", pdfMargin+pdfWidth-40, pdfMargin, 40, 0, false, opts, 0, "")
	}

	heading(pdf, tr, "Development assessment", 16)
	if doc.School != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 6, tr(doc.School), "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	rec := doc.Record
	facts := [][2]string{
		{"Name", rec.Name},
		{"Age", orDefault(rec.Age, "not given")},
		{"Sex", orDefault(rec.Sex, "not given")},
		{"Class", rec.Class},
		{"Period", rec.Period},
		{"Evaluator", rec.Evaluator},
		{"Overall mean", FormatMean(rec.Overall)},
	}
	for _, f := range facts {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 6, tr(f[0]), "1", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(pdfWidth-40, 6, tr(f[1]), "1", 1, "", false, 0, "")
	}

	if len(doc.Radar) > 0 {
		pdf.Ln(4)
		heading(pdf, tr, "Profile by dimension", 13)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("radar", opts, bytes.NewReader(doc.Radar))
		pdf.ImageOptions("radar", pdfMargin+(pdfWidth-110)/2, pdf.GetY(), 110, 110, true, opts, 0, "")
	}

	pdf.AddPage()
	heading(pdf, tr, "Items", 13)
	widths := []float64{40, 20, 90, 30}
	pdf.SetFont("Arial", "B", 9)
	tableRow(pdf, tr, widths, []string{"Dimension", "Item", "Description", "Rating"})
	pdf.SetFont("Arial", "", 9)
	for _, it := range doc.Items {
		tableRow(pdf, tr, widths, []string{it.Dimension, it.Code, it.Text, it.Label})
	}

	pdf.Ln(6)
	heading(pdf, tr, "Individual report", 13)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, pdfLineH, tr(rec.Report), "", "L", false)

	pdf.Ln(6)
	heading(pdf, tr, "Activities for home", 13)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, pdfLineH, tr(rec.Suggestions), "", "L", false)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, text string, size float64) {
	pdf.SetFont("Arial", "B", size)
	pdf.SetTextColor(int(brandRed.R), int(brandRed.G), int(brandRed.B))
	pdf.CellFormat(0, size*0.6, tr(text), "", 1, "", false, 0, "")
	pdf.SetTextColor(int(brandDark.R), int(brandDark.G), int(brandDark.B))
}

// tableRow draws one bordered row whose height fits the tallest wrapped cell.
func tableRow(pdf *gofpdf.Fpdf, tr func(string) string, widths []float64, cells []string) {
	lines := 1
	for i, c := range cells {
		if n := len(pdf.SplitLines([]byte(tr(c)), widths[i]-2)); n > lines {
			lines = n
		}
	}
	h := float64(lines) * pdfLineH

	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+h > pageH-pdfMargin {
		pdf.AddPage()
	}
	x, y := pdf.GetXY()
	for i, c := range cells {
		pdf.Rect(x, y, widths[i], h, "D")
		pdf.SetXY(x, y)
		pdf.MultiCell(widths[i], pdfLineH, tr(c), "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(pdfMargin, y+h)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
