package server

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/types"
)

type jobDescriptionResponse struct {
	Success        bool     `json:"success"`
	ID             string   `json:"id"`
	JobDescription string   `json:"jobDescription"`
	Keywords       []string `json:"keywords"`
	Requirements   []string `json:"requirements"`
	Message        string   `json:"message"`
}

// handleUploadJobDescription handles POST /job-descriptions. The form
// carries file (text or PDF), textContent, or url, checked in that order.
func (s *Server) handleUploadJobDescription(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	if !s.parseUpload(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := formFile(r, "file")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, ErrInvalidFormData)
		return
	}

	var jd *ingestion.JobDescription
	text := r.FormValue("textContent")
	url := strings.TrimSpace(r.FormValue("url"))
	switch {
	case file != nil:
		defer file.Close()
		if header.Size > s.maxUpload() {
			errorResponse(w, http.StatusBadRequest, s.fileTooLargeMessage())
			return
		}
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			errorResponse(w, http.StatusBadRequest, ErrInvalidFormData)
			return
		}
		jd, err = ingestion.FromFile(header.Filename, header.Header.Get("Content-Type"), data)
	case strings.TrimSpace(text) != "":
		jd, err = ingestion.FromText(text)
	case url != "":
		jd, err = s.deps.FetchJobPosting(r.Context(), url)
	default:
		errorResponse(w, http.StatusBadRequest, "Please provide a file, text content or URL")
		return
	}
	if err != nil {
		if HTTPStatus(err) == http.StatusBadRequest {
			errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[job-description] user %s: %v", userID, err)
		errorDetails(w, http.StatusInternalServerError, JobDescriptionError, err.Error())
		return
	}

	record := &types.JobDescription{
		UserID:       userID,
		Content:      jd.Content,
		Keywords:     jd.Keywords,
		Requirements: jd.Requirements,
	}
	if jd.Metadata != nil {
		record.SourceURL = jd.Metadata.URL
	}
	if err := s.deps.Store.SaveJobDescription(r.Context(), record); err != nil {
		log.Printf("[job-description] saving for user %s: %v", userID, err)
		errorResponse(w, http.StatusInternalServerError, JobDescriptionError)
		return
	}

	jsonResponse(w, http.StatusOK, jobDescriptionResponse{
		Success:        true,
		ID:             record.ID.String(),
		JobDescription: record.Content,
		Keywords:       nonNil(record.Keywords),
		Requirements:   nonNil(record.Requirements),
		Message:        "Job description processed successfully",
	})
}

// handleListJobDescriptions handles GET /job-descriptions.
func (s *Server) handleListJobDescriptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	list, err := s.deps.Store.ListJobDescriptions(r.Context(), userID)
	if err != nil {
		log.Printf("[job-description] listing for user %s: %v", userID, err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}
	if list == nil {
		list = []types.JobDescription{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"jobDescriptions": list})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
