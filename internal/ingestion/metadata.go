package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source values for Metadata.
const (
	SourceText = "text"
	SourceFile = "file"
	SourceURL  = "url"
)

// Metadata describes where an ingested job description came from.
type Metadata struct {
	Source    string `json:"source"`
	URL       string `json:"url,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 of the cleaned content
}

// NewMetadata stamps content with the current time and its hash.
func NewMetadata(source, content string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
