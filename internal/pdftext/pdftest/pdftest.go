// Package pdftest builds small single-page PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	// FontSize is the size every text item is drawn at.
	FontSize = 12.0
	// GlyphWidth is the advance of every glyph in the embedded monospace font.
	GlyphWidth = FontSize * 0.6

	left    = 72.0
	top     = 740.0
	leading = 16.0
)

// Text is one string drawn at a position on the page.
type Text struct {
	X, Y float64
	S    string
}

// Lines draws each line as a single text item, top to bottom.
func Lines(lines ...string) []Text {
	texts := make([]Text, 0, len(lines))
	for i, line := range lines {
		texts = append(texts, Text{X: left, Y: top - float64(i)*leading, S: line})
	}
	return texts
}

// Words draws each line one word per text item, with no space glyphs. Words
// are separated by half a glyph of empty room, as many PDF writers do.
func Words(lines ...string) []Text {
	var texts []Text
	for i, line := range lines {
		x := left
		for _, word := range strings.Fields(line) {
			texts = append(texts, Text{X: x, Y: top - float64(i)*leading, S: word})
			x += float64(len(word))*GlyphWidth + GlyphWidth/2
		}
	}
	return texts
}

// Document returns a one-page PDF drawing texts in a Courier-metric font
// with WinAnsi encoding.
func Document(texts []Text) []byte {
	var content bytes.Buffer
	for _, t := range texts {
		fmt.Fprintf(&content, "BT /F1 %s Tf %s %s Td (%s) Tj ET\n",
			num(FontSize), num(t.X), num(t.Y), escape(t.S))
	}

	widths := make([]string, 0, 95)
	for c := 32; c <= 126; c++ {
		widths = append(widths, "600")
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" +
			strings.Join(widths, " ") + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var doc bytes.Buffer
	doc.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = doc.Len()
		fmt.Fprintf(&doc, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := doc.Len()
	fmt.Fprintf(&doc, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&doc, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&doc, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return doc.Bytes()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}
