package ingestion

import "strings"

// MaxRequirements caps the number of requirement lines kept.
const MaxRequirements = 10

// commonKeywords is the vocabulary matched against job descriptions.
var commonKeywords = []string{
	"javascript", "python", "react", "node.js", "aws", "docker", "kubernetes",
	"leadership", "communication", "problem solving", "teamwork", "agile",
	"scrum", "git", "sql", "mongodb", "postgresql", "typescript", "next.js",
	"go", "golang", "java", "rust", "graphql", "terraform", "ci/cd",
}

var requirementMarkers = []string{"require", "must have", "experience with", "knowledge of"}

// ExtractKeywords returns the vocabulary terms present in content, in
// vocabulary order. Terms are matched on word boundaries.
func ExtractKeywords(content string) []string {
	lower := strings.ToLower(content)
	found := []string{}
	for _, kw := range commonKeywords {
		if containsTerm(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// ExtractRequirements returns up to MaxRequirements trimmed lines that read
// like requirements.
func ExtractRequirements(content string) []string {
	reqs := []string{}
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		for _, marker := range requirementMarkers {
			if strings.Contains(lower, marker) {
				reqs = append(reqs, strings.TrimSpace(line))
				break
			}
		}
		if len(reqs) == MaxRequirements {
			break
		}
	}
	return reqs
}

func containsTerm(text, term string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		if isBoundary(text, idx-1) && isBoundary(text, end) {
			return true
		}
		start = idx + 1
	}
}

func isBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_')
}
