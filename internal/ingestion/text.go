// Package ingestion turns uploaded or fetched job descriptions into cleaned
// text with extracted keywords and requirement lines.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	multiSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankTriple = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings and whitespace while keeping headings,
// bullets and indentation.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankTriple.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	indent := line[:len(line)-len(trimmed)]
	indent = strings.ReplaceAll(indent, "\t", "  ")
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + multiSpace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(line string) bool {
	for _, prefix := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
