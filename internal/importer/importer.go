// Package importer maps an extracted and enhanced LinkedIn profile onto a
// resume draft.
//
// The mapping is positional and heuristic:
//   - The first whitespace-delimited token of the name is the given name and
//     the rest is the family name.
//   - Experience entry i takes its description from enhanced experience i,
//     then enhanced experience 0, then the raw line. Its first non-empty line
//     is the position and its second the company.
//   - Education lines split into degree, institution and end date.
//   - Skills are extracted skills followed by enhancement keywords, first
//     occurrence wins.
//
// Mapping depends on nothing but its inputs.
package importer

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Validation messages returned by Validate.
const (
	ErrFullNameRequired       = "Full name is required"
	ErrJobDescriptionRequired = "Job description is required"
	ErrExperienceRequired     = "At least one work experience entry is required"
)

// MapToResumeDraft builds a draft from an import. Contact fields other than
// the name are left empty.
func MapToResumeDraft(extracted types.ExtractedProfile, enhanced types.EnhancedProfile) types.ResumeDraft {
	jobDescription := enhanced.Summary
	if strings.TrimSpace(jobDescription) == "" {
		jobDescription = extracted.Headline
	}

	return types.ResumeDraft{
		PersonalInfo: types.PersonalInfo{FullName: fullName(extracted.Name)},
		Experience:   mapExperience(extracted.Experience, enhanced.EnhancedExperience),
		Education:    mapEducation(extracted.Education),
		Projects:     []types.ProjectEntry{},
		Skills: types.Skills{
			Technical: mergeSkills(extracted.Skills, enhanced.Keywords),
			Soft:      []string{},
		},
		JobDescription: jobDescription,
	}
}

// Validate lists what the draft is missing before it can be generated from.
// An empty result means the draft is usable.
func Validate(draft types.ResumeDraft) []string {
	errs := []string{}
	if strings.TrimSpace(draft.PersonalInfo.FullName) == "" {
		errs = append(errs, ErrFullNameRequired)
	}
	if strings.TrimSpace(draft.JobDescription) == "" {
		errs = append(errs, ErrJobDescriptionRequired)
	}
	if len(draft.Experience) == 0 {
		errs = append(errs, ErrExperienceRequired)
	}
	return errs
}

// BuildPreview maps and validates an import for user confirmation.
func BuildPreview(extracted types.ExtractedProfile, enhanced types.EnhancedProfile) types.ImportPreview {
	draft := MapToResumeDraft(extracted, enhanced)
	errs := Validate(draft)

	suggestions := enhanced.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return types.ImportPreview{
		Preview:     draft,
		Errors:      errs,
		Suggestions: suggestions,
		IsValid:     len(errs) == 0,
	}
}

func fullName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	given, family := parts[0], strings.Join(parts[1:], " ")
	return strings.TrimSpace(given + " " + family)
}

func mapExperience(raw, enhanced []string) []types.ExperienceEntry {
	entries := make([]types.ExperienceEntry, 0, len(raw))
	for i, exp := range raw {
		lines := splitLines(exp)
		entries = append(entries, types.ExperienceEntry{
			ID:          fmt.Sprintf("exp-%d", i),
			Position:    lineAt(lines, 0),
			Company:     lineAt(lines, 1),
			Description: pickBullet(enhanced, i, exp),
		})
	}
	return entries
}

func pickBullet(enhanced []string, i int, raw string) string {
	if i < len(enhanced) && enhanced[i] != "" {
		return enhanced[i]
	}
	if len(enhanced) > 0 && enhanced[0] != "" {
		return enhanced[0]
	}
	return raw
}

func mapEducation(raw []string) []types.EducationEntry {
	entries := make([]types.EducationEntry, 0, len(raw))
	for i, edu := range raw {
		lines := splitLines(edu)
		entries = append(entries, types.EducationEntry{
			ID:          fmt.Sprintf("edu-%d", i),
			Degree:      lineAt(lines, 0),
			Institution: lineAt(lines, 1),
			EndDate:     lineAt(lines, 2),
		})
	}
	return entries
}

func mergeSkills(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := []string{}
	for _, list := range lists {
		for _, s := range list {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			merged = append(merged, s)
		}
	}
	return merged
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
