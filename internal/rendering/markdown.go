package rendering

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in the source is dropped (goldmark's default), so output is safe
// to embed.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify))

// RenderMarkdown converts a free-text description to HTML.
func RenderMarkdown(text string) (template.HTML, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", &RenderError{Message: "failed to convert markdown", Cause: err}
	}
	return template.HTML(buf.String()), nil
}
