package rendering

import (
	"embed"
	"html/template"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(template.New("resume.html.tmpl").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templateFS, "templates/resume.html.tmpl"))

// TemplateData is the view model passed to the resume template.
type TemplateData struct {
	Name       string
	Contact    []string
	Summary    string
	Experience []ExperienceSection
	Education  []EducationSection
	Projects   []ProjectSection
	Technical  []string
	Soft       []string
}

// ExperienceSection is one role. Bullets win over Description when present.
type ExperienceSection struct {
	Position    string
	Company     string
	Location    string
	Dates       string
	Bullets     []string
	Description template.HTML
}

// EducationSection is one degree.
type EducationSection struct {
	Degree      string
	Institution string
	Dates       string
	GPA         string
}

// ProjectSection is one project.
type ProjectSection struct {
	Name         string
	URL          string
	Technologies []string
	Description  template.HTML
}

// RenderHTML renders a complete HTML resume. When generated is non-nil its
// summary, bullets and skills replace the draft's own text.
func RenderHTML(draft *types.ResumeDraft, generated *types.GeneratedContent) (string, error) {
	if draft == nil {
		return "", &RenderError{Message: "resume data is required"}
	}

	data, err := buildTemplateData(draft, generated)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := resumeTemplate.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}

func buildTemplateData(draft *types.ResumeDraft, generated *types.GeneratedContent) (*TemplateData, error) {
	info := draft.PersonalInfo
	data := &TemplateData{
		Name:      info.FullName,
		Contact:   nonEmpty(info.Email, info.Phone, info.Location, info.LinkedIn, info.Website),
		Technical: draft.Skills.Technical,
		Soft:      draft.Skills.Soft,
	}

	bullets := make(map[string][]string)
	if generated != nil {
		data.Summary = generated.Summary
		for _, exp := range generated.Experiences {
			bullets[exp.ID] = exp.BulletPoints
		}
		if len(generated.Skills.Technical) > 0 || len(generated.Skills.Soft) > 0 {
			data.Technical = generated.Skills.Technical
			data.Soft = generated.Skills.Soft
		}
	}

	for _, exp := range sortExperience(draft.Experience) {
		desc, err := RenderMarkdown(exp.Description)
		if err != nil {
			return nil, err
		}
		data.Experience = append(data.Experience, ExperienceSection{
			Position:    exp.Position,
			Company:     exp.Company,
			Location:    exp.Location,
			Dates:       formatDateRange(exp.StartDate, exp.EndDate, exp.Current),
			Bullets:     bullets[exp.ID],
			Description: desc,
		})
	}

	for _, edu := range draft.Education {
		degree := edu.Degree
		if edu.Field != "" {
			degree = strings.TrimSpace(degree + " in " + edu.Field)
		}
		data.Education = append(data.Education, EducationSection{
			Degree:      degree,
			Institution: edu.Institution,
			Dates:       formatDateRange(edu.StartDate, edu.EndDate, false),
			GPA:         edu.GPA,
		})
	}

	for _, p := range draft.Projects {
		desc, err := RenderMarkdown(p.Description)
		if err != nil {
			return nil, err
		}
		url := p.URL
		if url == "" {
			url = p.GitHub
		}
		data.Projects = append(data.Projects, ProjectSection{
			Name:         p.Name,
			URL:          url,
			Technologies: p.Technologies,
			Description:  desc,
		})
	}

	return data, nil
}

// sortExperience orders roles most recent first: current roles, then by end
// date descending. Dates are compared as strings (YYYY-MM sorts correctly).
func sortExperience(in []types.ExperienceEntry) []types.ExperienceEntry {
	out := make([]types.ExperienceEntry, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := endKey(out[i]), endKey(out[j])
		return ei > ej
	})
	return out
}

func endKey(e types.ExperienceEntry) string {
	if e.Current || e.EndDate == "" {
		return "\uffff"
	}
	return e.EndDate
}

func formatDateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " – " + end
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
