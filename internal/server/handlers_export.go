package server

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// pdfFilename derives a download name from the resume owner.
func pdfFilename(draft *types.ResumeDraft) string {
	name := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(draft.PersonalInfo.FullName), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "resume.pdf"
	}
	return name + "_resume.pdf"
}

// handleExportPDF handles POST /export/pdf.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var req types.ExportPDFRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writePDF(w, r, &req.ResumeData)
}

// handleResumePDF handles GET /resumes/{id}/pdf.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	saved, ok := s.loadResume(w, r)
	if !ok {
		return
	}
	s.writePDF(w, r, &saved.Data)
}

func (s *Server) writePDF(w http.ResponseWriter, r *http.Request, draft *types.ResumeDraft) {
	if s.deps.Printer == nil {
		errorDetails(w, http.StatusInternalServerError, ExportErrorMessage, "headless browser is not configured")
		return
	}

	html, err := rendering.RenderHTML(draft, nil)
	if err != nil {
		log.Printf("[export] render: %v", err)
		errorDetails(w, http.StatusInternalServerError, ExportErrorMessage, err.Error())
		return
	}
	pdf, err := s.deps.Printer.PrintPDF(r.Context(), html)
	if err != nil {
		log.Printf("[export] print: %v", err)
		errorDetails(w, http.StatusInternalServerError, ExportErrorMessage, GeneralErrorDetails)
		return
	}

	w.Header().Set("Content-Type", pdfContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(draft)))
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[export] write: %v", err)
	}
}
