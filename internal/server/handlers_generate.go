package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/types"
)

type quotaBody struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter"`
	Details    string `json:"details"`
}

type generateResponse struct {
	Success bool                    `json:"success"`
	Data    *types.GeneratedContent `json:"data"`
}

// handleGenerateResume handles POST /generate-resume.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if s.deps.Generator == nil {
		errorDetails(w, http.StatusInternalServerError, GeneralErrorMessage, generation.ErrNotConfigured.Error())
		return
	}

	content, err := s.deps.Generator.Generate(r.Context(), req.ResumeData, req.JobDescription)
	if err != nil {
		var quota *generation.QuotaExceededError
		if errors.As(err, &quota) {
			log.Printf("[generate] quota exceeded for user %s: %v", userID, err)
			quotaResponse(w, quota.RetryAfterSeconds())
			return
		}
		log.Printf("[generate] failed for user %s: %v", userID, err)
		errorDetails(w, http.StatusInternalServerError, GeneralErrorMessage, GeneralErrorDetails)
		return
	}

	record := generation.NewGenerationRecord(userID, req.ResumeData, req.JobDescription, *content)
	if err := s.deps.Store.SaveGeneration(r.Context(), &record); err != nil {
		log.Printf("[generate] saving generation for user %s: %v", userID, err)
		errorDetails(w, http.StatusInternalServerError, GeneralErrorMessage, GeneralErrorDetails)
		return
	}

	jsonResponse(w, http.StatusOK, generateResponse{Success: true, Data: content})
}

func quotaResponse(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	jsonResponse(w, http.StatusTooManyRequests, quotaBody{
		Error:      QuotaErrorMessage,
		RetryAfter: retryAfter,
		Details:    QuotaErrorDetails,
	})
}

// handleRefineSection handles POST /refine-section.
func (s *Server) handleRefineSection(w http.ResponseWriter, r *http.Request) {
	var req types.RefineSectionRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if s.deps.Refiner == nil {
		errorDetails(w, http.StatusInternalServerError, RefineErrorMessage, generation.ErrNotConfigured.Error())
		return
	}

	resp, err := s.deps.Refiner.Refine(r.Context(), req)
	if err != nil {
		log.Printf("[refine] %s: %v", req.SectionType, err)
		details := err.Error()
		var failed *generation.GenerationFailedError
		if errors.As(err, &failed) {
			details = failed.Details
		}
		errorDetails(w, http.StatusInternalServerError, RefineErrorMessage, details)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

// handleChatResume handles POST /chat-resume as a Server-Sent Events stream.
func (s *Server) handleChatResume(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if s.deps.Chat == nil {
		errorResponse(w, http.StatusInternalServerError, InternalError)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.deps.Chat.Stream(r.Context(), req, sse.WriteChunk); err != nil {
		log.Printf("[chat] stream failed: %v", err)
		sse.WriteError(InternalError)
		return
	}
	sse.WriteDone()
}
