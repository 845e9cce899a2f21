package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in points for an A4 portrait page.
const (
	pageHeight   = 841.89
	titleX       = 100.0
	titleY       = 50.0
	bodyX        = 50.0
	bodyStartY   = 100.0
	lineHeight   = 20.0
	bottomMargin = 50.0
)

// PDFExporter renders report lines as plain text on A4 pages.
type PDFExporter struct {
	fontFamily string
	fontSize   float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{fontFamily: "Helvetica", fontSize: 12}
}

// Render writes the title on the first page followed by one line per entry,
// breaking to a new page once the next line would fall into the bottom margin.
func (e *PDFExporter) Render(title string, lines []string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(e.fontFamily, "", e.fontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	if title != "" {
		pdf.Text(titleX, titleY, tr(title))
	}

	page := 0
	for _, pos := range layoutLines(len(lines)) {
		for page < pos.page {
			pdf.AddPage()
			page++
		}
		pdf.Text(bodyX, pos.y, tr(lines[pos.index]))
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type linePosition struct {
	index int
	page  int
	y     float64
}

// layoutLines places n lines top-down. Pages after the first start at the
// title baseline since they carry no title.
func layoutLines(n int) []linePosition {
	positions := make([]linePosition, 0, n)
	page := 0
	y := bodyStartY
	for i := 0; i < n; i++ {
		positions = append(positions, linePosition{index: i, page: page, y: y})
		y += lineHeight
		if y > pageHeight-bottomMargin {
			page++
			y = titleY
		}
	}
	return positions
}
