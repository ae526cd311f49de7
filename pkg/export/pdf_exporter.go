package export

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
)

const utf8FontFamily = "timetable"

// ErrFontRequired is returned when a dataset holds text the built-in fonts
// cannot draw and no UTF-8 font was configured.
var ErrFontRequired = errors.New("pdf export of non-ASCII text requires a UTF-8 font")

// PDFExporter renders datasets into a landscape tabular PDF. The core PDF
// fonts cannot draw Cyrillic, so FontPath should point at a UTF-8 TrueType
// font; without it only ASCII datasets render.
type PDFExporter struct {
	FontPath string
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{FontPath: fontPath}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	if e.FontPath == "" && !asciiOnly(data) {
		return nil, ErrFontRequired
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	family := "Arial"
	if e.FontPath != "" {
		pdf.AddUTF8Font(utf8FontFamily, "", e.FontPath)
		pdf.AddUTF8Font(utf8FontFamily, "B", e.FontPath)
		family = utf8FontFamily
	}
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))

	pdf.SetFont(family, "B", 10)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func asciiOnly(data Dataset) bool {
	ascii := func(s string) bool {
		for i := 0; i < len(s); i++ {
			if s[i] >= utf8.RuneSelf {
				return false
			}
		}
		return true
	}
	if !ascii(data.Title) {
		return false
	}
	for _, h := range data.Headers {
		if !ascii(h) {
			return false
		}
	}
	for _, row := range data.Rows {
		for _, v := range row {
			if !ascii(v) {
				return false
			}
		}
	}
	return true
}
