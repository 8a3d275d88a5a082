// Package pdftext extracts layout-preserving plain text from PDF
// documents. Court docket sheets are columnar, so glyphs are regrouped
// into rows by vertical position and placed at character columns derived
// from their horizontal position. Extraction fails soft: a document that
// cannot be read yields empty text.
package pdftext

import (
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor converts PDF pages to positional text.
type Extractor struct {
	// RowTolerance is the vertical distance in points within which glyphs
	// belong to the same text row.
	RowTolerance float64
	// CharWidth is the assumed width of one character cell in points,
	// used to map a glyph's X position to a character column.
	CharWidth float64
}

// New returns an Extractor tuned for the monospace-like layout of docket
// sheets.
func New() *Extractor {
	return &Extractor{
		RowTolerance: 3.0,
		CharWidth:    6.0,
	}
}

// ExtractFile reads the PDF at path and returns its positional text, or
// an empty string when the file cannot be opened or parsed.
func (e *Extractor) ExtractFile(path string) string {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	return e.extract(reader)
}

// Extract reads a PDF from an in-memory or seekable source and returns
// its positional text, or an empty string on failure.
func (e *Extractor) Extract(r io.ReaderAt, size int64) string {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return ""
	}
	return e.extract(reader)
}

func (e *Extractor) extract(reader *pdf.Reader) (text string) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, e.assemble(page.Content().Text))
	}
	return strings.Join(pages, "\n")
}

// assemble lays glyph fragments out as text lines. Fragments are grouped
// into rows top to bottom, then placed left to right at the character
// column their X position maps to, padding with spaces so columnar fields
// keep their alignment.
func (e *Extractor) assemble(texts []pdf.Text) string {
	fragments := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		fragments = append(fragments, t)
	}
	if len(fragments) == 0 {
		return ""
	}

	// PDF Y coordinates grow upward.
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Y != fragments[j].Y {
			return fragments[i].Y > fragments[j].Y
		}
		return fragments[i].X < fragments[j].X
	})

	var lines []string
	var line strings.Builder
	rowY := fragments[0].Y
	for _, t := range fragments {
		if rowY-t.Y > e.RowTolerance {
			lines = append(lines, line.String())
			line.Reset()
			rowY = t.Y
		}
		col := int(t.X / e.CharWidth)
		for line.Len() < col {
			line.WriteByte(' ')
		}
		if line.Len() > col && !strings.HasSuffix(line.String(), " ") {
			line.WriteByte(' ')
		}
		line.WriteString(t.S)
	}
	lines = append(lines, line.String())
	return strings.Join(lines, "\n")
}
