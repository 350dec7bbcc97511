// Package pdftext extracts plain text from PDF documents, one output line per
// text row.
package pdftext

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFMagic is the signature every PDF file starts with.
var PDFMagic = []byte("%PDF-")

// Error reports a document that could not be read as a PDF.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf extraction failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// LooksLikePDF reports whether data starts with the PDF signature.
func LooksLikePDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), PDFMagic)
}

// Extract returns the text of every page joined by newlines. The parser
// panics on some malformed input, which is reported as an *Error.
func Extract(data []byte) (text string, err error) {
	if !LooksLikePDF(data) {
		return "", &Error{Message: "not a PDF document"}
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{Message: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Message: "failed to open document", Cause: err}
	}

	var lines []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, pageLines(page.Content().Text)...)
	}
	return strings.Join(lines, "\n"), nil
}

// row is the glyphs sharing one baseline.
type row struct {
	y      float64
	glyphs []pdf.Text
}

// pageLines groups glyphs into rows by baseline, top to bottom, and joins
// each row left to right.
func pageLines(glyphs []pdf.Text) []string {
	var rows []*row
	byBaseline := map[int64]*row{}
	for _, g := range glyphs {
		if g.S == "\n" || g.S == "\r" {
			continue
		}
		key := int64(math.Round(g.Y))
		r, ok := byBaseline[key]
		if !ok {
			r = &row{y: g.Y}
			byBaseline[key] = r
			rows = append(rows, r)
		}
		r.glyphs = append(r.glyphs, g)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if line := strings.TrimSpace(joinRow(r.glyphs)); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// joinRow concatenates glyphs in reading order. A horizontal gap wider than
// wordGap of the font size becomes a space.
func joinRow(glyphs []pdf.Text) string {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	var sb strings.Builder
	for i, g := range glyphs {
		if i > 0 && startsWord(glyphs[i-1], g) {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
	}
	return sb.String()
}

// wordGap is the gap, as a fraction of the font size, that separates words.
const wordGap = 0.15

func startsWord(prev, next pdf.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	size := prev.FontSize
	if size <= 0 {
		size = next.FontSize
	}
	if size <= 0 {
		size = 1
	}
	return next.X-(prev.X+prev.W) > size*wordGap
}
