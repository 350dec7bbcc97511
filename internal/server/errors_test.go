package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/linkedin"
	"github.com/jonathan/resume-builder/internal/pdftext"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "email taken", err: &ErrEmailAlreadyExists{Email: "a@b.co"}, want: http.StatusConflict},
		{name: "bad credentials", err: &ErrInvalidCredentials{}, want: http.StatusUnauthorized},
		{name: "unauthorized", err: &ErrUnauthorized{}, want: http.StatusUnauthorized},
		{name: "not found", err: &ErrNotFound{Resource: "Resume"}, want: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "title", Message: "required"}, want: http.StatusBadRequest},
		{name: "invalid profile url", err: &linkedin.InvalidSourceError{URL: "https://example.com/in/x"}, want: http.StatusBadRequest},
		{name: "unsupported upload", err: &ingestion.UnsupportedTypeError{ContentType: "image/png"}, want: http.StatusBadRequest},
		{name: "empty job description", err: ingestion.ErrEmpty, want: http.StatusBadRequest},
		{name: "unreadable pdf upload", err: &pdftext.Error{Message: "failed to open document"}, want: http.StatusBadRequest},
		{name: "quota", err: &generation.QuotaExceededError{RetryAfter: time.Minute}, want: http.StatusTooManyRequests},
		{name: "wrapped quota", err: fmt.Errorf("generate: %w", &generation.QuotaExceededError{}), want: http.StatusTooManyRequests},
		{name: "generation failed", err: &generation.GenerationFailedError{Details: "bad reply"}, want: http.StatusInternalServerError},
		{name: "scrape failed", err: &linkedin.ScrapeError{URL: "u", Cause: errors.New("chrome")}, want: http.StatusInternalServerError},
		{name: "extraction failed", err: &linkedin.ExtractionError{Cause: errors.New("eof")}, want: http.StatusInternalServerError},
		{name: "profile pdf unreadable", err: &linkedin.ExtractionError{Cause: &pdftext.Error{Message: "not a PDF document"}}, want: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrValidation_Error(t *testing.T) {
	assert.Equal(t, "validation error: title - required", (&ErrValidation{Field: "title", Message: "required"}).Error())
	assert.Equal(t, "Only PDF files are allowed", (&ErrValidation{Message: "Only PDF files are allowed"}).Error())
}
