package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestPrintExtractedProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtractedProfile(&types.ExtractedProfile{
		Name:       "Jane Smith",
		Experience: []string{"Staff Engineer\nAcme", "Engineer", "Intern", "Contractor", "Freelancer", "Founder"},
		Skills:     []string{"Go", "Rust"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED PROFILE")
	assert.Contains(t, output, "Jane Smith")
	assert.Contains(t, output, "Headline: -")
	assert.Contains(t, output, "• Staff Engineer ")
	assert.NotContains(t, output, "Acme")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Skills (2): Go, Rust")
}

func TestPrintExtractedProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExtractedProfile(nil)
	assert.Empty(t, buf.String())
}

func TestPrintEnhancedProfile(t *testing.T) {
	tests := []struct {
		name     string
		enhanced types.EnhancedProfile
		want     string
	}{
		{"model output", types.EnhancedProfile{Summary: "Backend engineer", Keywords: []string{"Go"}}, "Keywords: Go"},
		{"failed call", types.EnhancedProfile{Summary: "x", Error: "AI enhancement failed", Details: "timeout"}, "⚠ AI enhancement failed: timeout"},
		{"raw reply", types.EnhancedProfile{Summary: "x", RawAIResponse: "x"}, "not structured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintEnhancedProfile(&tt.enhanced)
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "AI ENHANCEMENT")
		})
	}
}

func TestPrintImportPreview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportPreview(&types.ImportPreview{Errors: []string{"Full name is required"}})
	assert.Contains(t, buf.String(), "⚠ Full name is required")

	buf.Reset()
	p.PrintImportPreview(&types.ImportPreview{IsValid: true, Preview: types.ResumeDraft{PersonalInfo: types.PersonalInfo{FullName: "Jane"}}})
	assert.Contains(t, buf.String(), "Ready to use")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("T", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "  one two\n  three", wrap("one two three", 7, "  "))
	assert.Equal(t, "  -", wrap("", 10, "  "))
}
