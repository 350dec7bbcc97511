// Package observability provides formatted output for the command-line tools.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the extract command.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList renders up to limit items as bullets under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		// Multi-line entries are shown by their first line.
		first, _, _ := strings.Cut(items[i], "\n")
		sb.WriteString(fmt.Sprintf("  • %s\n", first))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintExtractedProfile outputs the fields pulled from a LinkedIn source.
func (p *Printer) PrintExtractedProfile(profile *types.ExtractedProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(profile.Name)))
	sb.WriteString(fmt.Sprintf("Headline: %s\n", orDash(profile.Headline)))
	sb.WriteString("\n")
	writeList(&sb, "Experience", profile.Experience, maxItemsToShow)
	writeList(&sb, "Education", profile.Education, 3)
	if len(profile.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n", len(profile.Skills), strings.Join(profile.Skills, ", ")))
	}

	p.printBox("EXTRACTED PROFILE", strings.TrimRight(sb.String(), "\n"))
}

// PrintEnhancedProfile outputs the enhancement result, flagging fallback
// records.
func (p *Printer) PrintEnhancedProfile(enhanced *types.EnhancedProfile) {
	if enhanced == nil {
		return
	}

	var sb strings.Builder
	switch {
	case enhanced.Error != "":
		sb.WriteString(fmt.Sprintf("⚠ %s: %s\n\n", enhanced.Error, enhanced.Details))
	case enhanced.RawAIResponse != "":
		sb.WriteString("⚠ model reply was not structured; using it as the summary\n\n")
	}

	sb.WriteString("Summary:\n")
	sb.WriteString(wrap(enhanced.Summary, boxWidth-6, "  "))
	sb.WriteString("\n\n")
	writeList(&sb, "Enhanced experience", enhanced.EnhancedExperience, maxItemsToShow)
	if len(enhanced.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("Keywords: %s\n\n", strings.Join(enhanced.Keywords, ", ")))
	}
	writeList(&sb, "Suggestions", enhanced.Suggestions, 3)

	p.printBox("AI ENHANCEMENT", strings.TrimRight(sb.String(), "\n"))
}

// PrintImportPreview outputs the mapped draft and any validation problems.
func (p *Printer) PrintImportPreview(preview *types.ImportPreview) {
	if preview == nil {
		return
	}

	draft := preview.Preview
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Full name:   %s\n", orDash(draft.PersonalInfo.FullName)))
	sb.WriteString(fmt.Sprintf("Experience:  %d entries\n", len(draft.Experience)))
	sb.WriteString(fmt.Sprintf("Education:   %d entries\n", len(draft.Education)))
	sb.WriteString(fmt.Sprintf("Skills:      %d technical\n", len(draft.Skills.Technical)))
	sb.WriteString("\n")

	if preview.IsValid {
		sb.WriteString("✅ Ready to use\n")
	} else {
		for _, e := range preview.Errors {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", e))
		}
	}

	p.printBox("IMPORT PREVIEW", strings.TrimRight(sb.String(), "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + "-"
	}

	var lines []string
	line := ""
	for _, w := range words {
		switch {
		case line == "":
			line = w
		case len([]rune(line))+1+len([]rune(w)) <= width:
			line += " " + w
		default:
			lines = append(lines, indent+line)
			line = w
		}
	}
	lines = append(lines, indent+line)
	return strings.Join(lines, "\n")
}
