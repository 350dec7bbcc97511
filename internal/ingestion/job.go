package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/pdftext"
)

// ErrEmpty is returned when a source yields no usable text.
var ErrEmpty = errors.New("job description is empty")

// UnsupportedTypeError reports an upload that is neither text nor PDF.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q: upload text/plain or application/pdf", e.ContentType)
}

// JobDescription is the processed form of one job description.
type JobDescription struct {
	Content      string    `json:"content"`
	Keywords     []string  `json:"keywords"`
	Requirements []string  `json:"requirements"`
	Metadata     *Metadata `json:"metadata"`
}

// FromText processes pasted text.
func FromText(text string) (*JobDescription, error) {
	return process(SourceText, text)
}

// FromFile processes an uploaded file. PDF text is extracted first.
func FromFile(filename, contentType string, data []byte) (*JobDescription, error) {
	var text string
	switch {
	case strings.HasPrefix(contentType, "application/pdf") || (contentType == "" && pdftext.LooksLikePDF(data)):
		extracted, err := pdftext.Extract(data)
		if err != nil {
			return nil, err
		}
		text = extracted
	case strings.HasPrefix(contentType, "text/plain"):
		text = string(data)
	default:
		return nil, &UnsupportedTypeError{ContentType: contentType}
	}

	jd, err := process(SourceFile, text)
	if err != nil {
		return nil, err
	}
	jd.Metadata.Filename = filename
	return jd, nil
}

// FromURL fetches a job posting and processes its main text.
func FromURL(ctx context.Context, urlStr string, opts *fetch.Options) (*JobDescription, error) {
	text, err := fetch.JobPostingText(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}
	log.Printf("[ingest] fetched %d characters from %s", len(text), urlStr)

	jd, err := process(SourceURL, text)
	if err != nil {
		return nil, err
	}
	jd.Metadata.URL = urlStr
	jd.Metadata.Platform = string(fetch.DetectPlatform(urlStr))
	return jd, nil
}

func process(source, raw string) (*JobDescription, error) {
	content := CleanText(raw)
	if content == "" {
		return nil, ErrEmpty
	}
	return &JobDescription{
		Content:      content,
		Keywords:     ExtractKeywords(content),
		Requirements: ExtractRequirements(content),
		Metadata:     NewMetadata(source, content),
	}, nil
}
