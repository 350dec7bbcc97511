package types

// ExtractedProfile is the raw result of a LinkedIn PDF or page extraction.
// Fields the source did not expose are left empty.
type ExtractedProfile struct {
	Name       string   `json:"name"`
	Headline   string   `json:"headline"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Skills     []string `json:"skills"`
	RawText    string   `json:"rawText,omitempty"`
}

// EnhancedProfile is the model-improved view of an ExtractedProfile.
// A non-empty Error marks fallback output that is still usable.
type EnhancedProfile struct {
	Summary            string   `json:"summary"`
	EnhancedExperience []string `json:"enhancedExperience"`
	Keywords           []string `json:"keywords"`
	Suggestions        []string `json:"suggestions"`
	Error              string   `json:"error,omitempty"`
	Details            string   `json:"details,omitempty"`
	RawAIResponse      string   `json:"rawAiResponse,omitempty"`
}

// Degraded reports whether the record came from the fallback path.
func (p EnhancedProfile) Degraded() bool {
	return p.Error != "" || p.RawAIResponse != ""
}

// ImportPreview summarises what an import will put into the draft.
type ImportPreview struct {
	Preview     ResumeDraft `json:"preview"`
	Errors      []string    `json:"errors"`
	Suggestions []string    `json:"suggestions"`
	IsValid     bool        `json:"isValid"`
}

// ImportResponse is the body returned by the LinkedIn import endpoint.
type ImportResponse struct {
	Success    bool             `json:"success"`
	Extracted  ExtractedProfile `json:"extracted"`
	AIEnhanced EnhancedProfile  `json:"aiEnhanced"`
	Preview    *ImportPreview   `json:"preview,omitempty"`
}
