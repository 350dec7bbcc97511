// Package linkedin extracts profile data from LinkedIn PDF exports and public
// profile pages. Both strategies are best-effort pattern matching and produce
// the same types.ExtractedProfile shape.
package linkedin

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/pdftext"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	// Two or three capitalized words, optionally after a "Name:" label.
	nameRe     = regexp.MustCompile(`(?:(?i:name)[ \t]*:?[ \t]*|^)([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})`)
	headlineRe = regexp.MustCompile(`(?i)(?:headline|title)[ \t]*:?[ \t]*([^\n\r]+)`)
	skillSepRe = regexp.MustCompile(`,|\n`)
)

type section int

const maxHeadingWords = 3

const (
	sectionNone section = iota
	sectionExperience
	sectionEducation
	sectionSkills
)

// headingOf recognises a section heading line such as "Experience",
// "SKILLS:", "Work Experience" or "Top Skills". A heading of more than one
// word must be short and title cased, so sentences that merely end in a
// heading word stay content.
func headingOf(line string) section {
	words := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ":"))
	if len(words) == 0 || len(words) > maxHeadingWords {
		return sectionNone
	}
	if len(words) > 1 {
		for _, w := range words {
			if r := w[0]; r < 'A' || r > 'Z' {
				return sectionNone
			}
		}
	}
	switch strings.ToLower(words[len(words)-1]) {
	case "experience":
		return sectionExperience
	case "education":
		return sectionEducation
	case "skills":
		return sectionSkills
	}
	return sectionNone
}

// ExtractFromPDF reads a LinkedIn profile PDF and parses its text. A document
// that cannot be read at all yields an *ExtractionError; missing fields are
// simply empty.
func ExtractFromPDF(data []byte) (*types.ExtractedProfile, error) {
	text, err := pdftext.Extract(data)
	if err != nil {
		return nil, &ExtractionError{Cause: err}
	}
	profile := ParseProfileText(text)
	return &profile, nil
}

// ParseProfileText pulls the profile fields out of plain document text.
//
// Experience and education each run from their heading to the next
// recognised heading. Skills run from their heading to the end of the text
// and are split on commas as well as line breaks.
func ParseProfileText(text string) types.ExtractedProfile {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	profile := types.ExtractedProfile{
		Experience: []string{},
		Education:  []string{},
		Skills:     []string{},
		RawText:    text,
	}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		profile.Name = strings.TrimSpace(m[1])
	}
	if m := headlineRe.FindStringSubmatch(text); m != nil {
		profile.Headline = strings.TrimSpace(m[1])
	}

	var skillsText []string
	current := sectionNone
	for _, line := range strings.Split(text, "\n") {
		if current == sectionSkills {
			skillsText = append(skillsText, line)
			continue
		}
		if h := headingOf(line); h != sectionNone {
			current = h
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch current {
		case sectionExperience:
			profile.Experience = append(profile.Experience, line)
		case sectionEducation:
			profile.Education = append(profile.Education, line)
		}
	}

	for _, s := range skillSepRe.Split(strings.Join(skillsText, "\n"), -1) {
		if s = strings.TrimSpace(s); s != "" {
			profile.Skills = append(profile.Skills, s)
		}
	}
	return profile
}
