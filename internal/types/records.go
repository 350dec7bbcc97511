package types

import (
	"time"

	"github.com/google/uuid"
)

// SavedResume is a persisted resume owned by one user.
type SavedResume struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Title     string      `json:"title"`
	Data      ResumeDraft `json:"data"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ResumeSummary is the list view of a saved resume.
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveResumeRequest is the body for creating or replacing a saved resume.
type SaveResumeRequest struct {
	Title string      `json:"title" validate:"required,max=200"`
	Data  ResumeDraft `json:"data"`
}

// Validate validates the SaveResumeRequest.
func (r *SaveResumeRequest) Validate() error {
	return validate.Struct(r)
}

// GenerationRecord is the audit trail of one successful generation.
type GenerationRecord struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"userId"`
	OriginalData     ResumeDraft      `json:"originalData"`
	JobDescription   string           `json:"jobDescription"`
	GeneratedContent GeneratedContent `json:"generatedContent"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// JobDescription is an uploaded target-role description.
type JobDescription struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Content      string    `json:"content"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	Keywords     []string  `json:"keywords"`
	Requirements []string  `json:"requirements"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExportPDFRequest is the body of the PDF export endpoint.
type ExportPDFRequest struct {
	ResumeData ResumeDraft `json:"resumeData"`
}
