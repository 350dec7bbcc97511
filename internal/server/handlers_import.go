package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jonathan/resume-builder/internal/enhance"
	"github.com/jonathan/resume-builder/internal/importer"
	"github.com/jonathan/resume-builder/internal/linkedin"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	pdfContentType = "application/pdf"
	// formOverhead is allowed on top of the file limit for multipart framing
	// and the other fields.
	formOverhead = 1 << 20
)

// Import validation messages.
const (
	ErrImportNoSource  = "Please provide either a LinkedIn URL or PDF file"
	ErrImportNotPDF    = "Only PDF files are allowed"
	ErrInvalidFormData = "Invalid form data"
)

func (s *Server) maxUpload() int64 {
	if s.cfg.MaxUploadBytes > 0 {
		return s.cfg.MaxUploadBytes
	}
	return 10 << 20
}

func (s *Server) fileTooLargeMessage() string {
	limit := s.maxUpload()
	if limit%(1<<20) == 0 {
		return fmt.Sprintf("File size exceeds %dMB limit", limit>>20)
	}
	return fmt.Sprintf("File size exceeds %dKB limit", limit>>10)
}

// parseUpload parses a multipart form bounded by the upload limit. It writes
// the 400 itself and reports false on failure.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload()+formOverhead)
	if err := r.ParseMultipartForm(s.maxUpload() + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(w, http.StatusBadRequest, s.fileTooLargeMessage())
			return false
		}
		errorResponse(w, http.StatusBadRequest, ErrInvalidFormData)
		return false
	}
	return true
}

// formFile returns the named upload, or nil when the field is absent.
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	return file, header, err
}

// handleLinkedInImport handles POST /linkedin-import. The form carries
// either url (public profile) or file (profile PDF); url wins when both
// are present.
func (s *Server) handleLinkedInImport(w http.ResponseWriter, r *http.Request) {
	if !s.parseUpload(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	url := strings.TrimSpace(r.FormValue("url"))
	file, header, err := formFile(r, "file")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, ErrInvalidFormData)
		return
	}
	if file != nil {
		defer file.Close()
	}
	if url == "" && file == nil {
		errorResponse(w, http.StatusBadRequest, ErrImportNoSource)
		return
	}

	var extracted *types.ExtractedProfile
	if url != "" {
		extracted, err = s.scrapeProfile(r, url)
	} else {
		if header.Size > s.maxUpload() {
			errorResponse(w, http.StatusBadRequest, s.fileTooLargeMessage())
			return
		}
		if header.Header.Get("Content-Type") != pdfContentType {
			errorResponse(w, http.StatusBadRequest, ErrImportNotPDF)
			return
		}
		extracted, err = s.extractProfilePDF(file)
	}
	if err != nil {
		if HTTPStatus(err) == http.StatusBadRequest {
			errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[import] %v", err)
		errorDetails(w, http.StatusInternalServerError, ImportErrorMessage, err.Error())
		return
	}

	var enhanced types.EnhancedProfile
	if s.deps.Enhancer != nil {
		enhanced = s.deps.Enhancer.Enhance(r.Context(), *extracted)
	} else {
		enhanced = enhance.Fallback(*extracted)
	}
	if enhanced.Degraded() {
		log.Printf("[import] enhancement degraded: %s %s", enhanced.Error, enhanced.Details)
	}

	preview := importer.BuildPreview(*extracted, enhanced)
	jsonResponse(w, http.StatusOK, types.ImportResponse{
		Success:    true,
		Extracted:  *extracted,
		AIEnhanced: enhanced,
		Preview:    &preview,
	})
}

func (s *Server) scrapeProfile(r *http.Request, url string) (*types.ExtractedProfile, error) {
	// Reject foreign hosts before touching the browser, configured or not.
	if err := linkedin.ValidateProfileURL(url); err != nil {
		return nil, err
	}
	if s.deps.Scraper == nil {
		return nil, &linkedin.ScrapeError{URL: url, Cause: errors.New("headless browser is not configured")}
	}
	return s.deps.Scraper.Scrape(r.Context(), url)
}

func (s *Server) extractProfilePDF(file io.Reader) (*types.ExtractedProfile, error) {
	data, err := io.ReadAll(io.LimitReader(file, s.maxUpload()+1))
	if err != nil {
		return nil, &linkedin.ExtractionError{Cause: err}
	}
	return s.deps.ExtractPDF(data)
}
