package linkedin

import "fmt"

// InvalidSourceError reports a profile URL outside the public-profile host.
// It is returned before any browser or network action.
type InvalidSourceError struct {
	URL string
}

func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid LinkedIn URL: %q", e.URL)
}

// ScrapeError reports a profile page that could not be loaded at all.
type ScrapeError struct {
	URL   string
	Cause error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("failed to scrape LinkedIn profile %s: %v", e.URL, e.Cause)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

// ExtractionError reports a profile document that could not be parsed.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract data from PDF: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
