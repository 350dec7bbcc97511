package types

// PersonalInfo holds the contact block of a resume.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website"`
}

// EducationEntry is one education record. ID is assigned by the caller.
type EducationEntry struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

// ExperienceEntry is one work experience record.
// EndDate is not authoritative when Current is set.
type ExperienceEntry struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// ProjectEntry is one portfolio project.
type ProjectEntry struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
	GitHub       string   `json:"github"`
}

// Skills splits skills into technical and soft lists, each free of duplicates.
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// ResumeDraft is the working resume assembled by the form wizard.
type ResumeDraft struct {
	PersonalInfo   PersonalInfo      `json:"personalInfo"`
	Education      []EducationEntry  `json:"education"`
	Experience     []ExperienceEntry `json:"experience"`
	Projects       []ProjectEntry    `json:"projects"`
	Skills         Skills            `json:"skills"`
	JobDescription string            `json:"jobDescription"`
}

// ExperienceIDs returns the set of experience ids present in the draft.
func (d *ResumeDraft) ExperienceIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(d.Experience))
	for _, e := range d.Experience {
		ids[e.ID] = struct{}{}
	}
	return ids
}

// GenerateRequest is the body of the resume generation endpoint.
type GenerateRequest struct {
	ResumeData     ResumeDraft `json:"resumeData"`
	JobDescription string      `json:"jobDescription" validate:"required"`
}

// Validate validates the GenerateRequest.
func (r *GenerateRequest) Validate() error {
	return validate.Struct(r)
}

// GeneratedExperience holds rewritten bullets for one draft experience.
type GeneratedExperience struct {
	ID           string   `json:"id"`
	BulletPoints []string `json:"bulletPoints"`
	Keywords     []string `json:"keywords"`
}

// GeneratedContent is the structured reply of resume generation.
// Experience ids are always a subset of the input draft's ids.
type GeneratedContent struct {
	Summary     string                `json:"summary"`
	Experiences []GeneratedExperience `json:"experiences"`
	Skills      Skills                `json:"skills"`
	Suggestions []string              `json:"suggestions"`
}
