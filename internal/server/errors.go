// Package server provides the HTTP API for the resume builder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/linkedin"
	"github.com/jonathan/resume-builder/internal/pdftext"
)

// Client-facing messages.
const (
	QuotaErrorMessage   = "API quota exceeded. Please try again later."
	QuotaErrorDetails   = "The AI service is temporarily unavailable due to rate limits. Please wait a few minutes before trying again."
	GeneralErrorMessage = "Failed to generate resume content. Please try again."
	GeneralErrorDetails = "An unexpected error occurred. Please try again."
	RefineErrorMessage  = "Failed to refine section"
	ImportErrorMessage  = "Import failed"
	JobDescriptionError = "Failed to process job description"
	ExportErrorMessage  = "Failed to export PDF"
	InternalError       = "Internal server error"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUnauthorized indicates a request without a usable caller identity.
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "Unauthorized"
}

// ErrNotFound indicates a record missing or owned by another user.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the HTTP status code for err, looking through wrapping.
func HTTPStatus(err error) int {
	var (
		emailTaken   *ErrEmailAlreadyExists
		badLogin     *ErrInvalidCredentials
		unauthorized *ErrUnauthorized
		notFound     *ErrNotFound
		validation   *ErrValidation
		quota        *generation.QuotaExceededError
		badSource    *linkedin.InvalidSourceError
		badType      *ingestion.UnsupportedTypeError
		badPDF       *pdftext.Error
		extraction   *linkedin.ExtractionError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailTaken):
		return http.StatusConflict
	case errors.As(err, &badLogin), errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &extraction):
		// a profile import whose document cannot be read fails the import
		return http.StatusInternalServerError
	case errors.As(err, &validation), errors.As(err, &badSource), errors.As(err, &badType),
		errors.As(err, &badPDF), errors.Is(err, ingestion.ErrEmpty):
		return http.StatusBadRequest
	case errors.As(err, &quota):
		return http.StatusTooManyRequests
	default:
		// generation failures, scrape and extraction failures, storage
		return http.StatusInternalServerError
	}
}
