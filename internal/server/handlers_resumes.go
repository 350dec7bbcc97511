package server

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/types"
)

const resumeNotFound = "Resume not found"

var _ Store = (*db.DB)(nil)

// resumeID parses the {id} path value. Malformed IDs answer 404 like any
// other unknown resume.
func resumeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		errorResponse(w, http.StatusNotFound, resumeNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func decodeSaveResume(w http.ResponseWriter, r *http.Request) (*types.SaveResumeRequest, bool) {
	var req types.SaveResumeRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return nil, false
	}
	return &req, true
}

// handleListResumes handles GET /resumes.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	resumes, err := s.deps.Store.ListResumes(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching resumes: %v", err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}
	if resumes == nil {
		resumes = []types.ResumeSummary{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

// handleCreateResume handles POST /resumes.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSaveResume(w, r)
	if !ok {
		return
	}

	saved, err := s.deps.Store.CreateResume(r.Context(), userID, req.Title, req.Data)
	if err != nil {
		log.Printf("Error creating resume: %v", err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]any{
		"success": true,
		"resume": types.ResumeSummary{
			ID:        saved.ID,
			Title:     saved.Title,
			CreatedAt: saved.CreatedAt,
			UpdatedAt: saved.UpdatedAt,
		},
	})
}

// handleGetResume handles GET /resumes/{id}.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	saved, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"resume": saved})
}

// handleUpdateResume handles PUT /resumes/{id}.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := resumeID(w, r)
	if !ok {
		return
	}
	req, ok := decodeSaveResume(w, r)
	if !ok {
		return
	}

	saved, err := s.deps.Store.UpdateResume(r.Context(), userID, id, req.Title, req.Data)
	if err != nil {
		log.Printf("Error updating resume: %v", err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}
	if saved == nil {
		errorResponse(w, http.StatusNotFound, resumeNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "resume": saved})
}

// handleDeleteResume handles DELETE /resumes/{id}.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	id, ok := resumeID(w, r)
	if !ok {
		return
	}

	deleted, err := s.deps.Store.DeleteResume(r.Context(), userID, id)
	if err != nil {
		log.Printf("Error deleting resume: %v", err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}
	if !deleted {
		errorResponse(w, http.StatusNotFound, resumeNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// loadResume fetches the caller's resume named by {id}, answering 401, 404
// or 500 itself.
func (s *Server) loadResume(w http.ResponseWriter, r *http.Request) (*types.SavedResume, bool) {
	userID, ok := s.userID(w, r)
	if !ok {
		return nil, false
	}
	id, ok := resumeID(w, r)
	if !ok {
		return nil, false
	}

	saved, err := s.deps.Store.GetResume(r.Context(), userID, id)
	if err != nil {
		log.Printf("Error fetching resume: %v", err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return nil, false
	}
	if saved == nil {
		errorResponse(w, http.StatusNotFound, resumeNotFound)
		return nil, false
	}
	return saved, true
}

// handleListGenerations handles GET /generations.
func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	records, err := s.deps.Store.ListGenerations(r.Context(), userID, db.DefaultGenerationLimit)
	if err != nil {
		log.Printf("Error fetching generations: %v", err)
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}
	if records == nil {
		records = []types.GenerationRecord{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"generations": records})
}
