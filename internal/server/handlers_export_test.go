package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPDF(t *testing.T) {
	printer := &mockPrinter{PrintFunc: func(context.Context, string) ([]byte, error) {
		return []byte("%PDF-1.7 rendered"), nil
	}}
	env := newTestEnv(t, Deps{Printer: printer})

	rec := env.postJSON("/export/pdf", `{"resumeData": {"personalInfo": {"fullName": "Jane Smith", "email": "jane@example.com"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane_Smith_resume.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7 rendered", rec.Body.String())
	assert.Contains(t, printer.html, "Jane Smith")
	assert.Contains(t, printer.html, "jane@example.com")
}

func TestExportPDF_SavedResume(t *testing.T) {
	printer := &mockPrinter{PrintFunc: func(context.Context, string) ([]byte, error) {
		return []byte("%PDF"), nil
	}}
	env := newTestEnv(t, Deps{Printer: printer})
	id := createResume(t, env, "Backend")

	rec := env.authed(http.MethodGet, "/resumes/"+id.String()+"/pdf", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, printer.html, "Jane Smith")
}

func TestExportPDF_Failures(t *testing.T) {
	env := newTestEnv(t, Deps{})
	rec := env.postJSON("/export/pdf", `{"resumeData": {}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), ExportErrorMessage)

	env = newTestEnv(t, Deps{Printer: &mockPrinter{PrintFunc: func(context.Context, string) ([]byte, error) {
		return nil, errors.New("chrome crashed")
	}}})
	rec = env.postJSON("/export/pdf", `{"resumeData": {}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "chrome crashed")
}

func TestPDFFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Jane Smith", want: "Jane_Smith_resume.pdf"},
		{name: "  ", want: "resume.pdf"},
		{name: `Zoë "ZZ" O'Neil`, want: "Zo_ZZ_O_Neil_resume.pdf"},
	}
	for _, tt := range tests {
		draft := &types.ResumeDraft{PersonalInfo: types.PersonalInfo{FullName: tt.name}}
		assert.Equal(t, tt.want, pdfFilename(draft), tt.name)
	}
}
