package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	m := NewMetadata(SourceText, "Go developer")

	assert.Equal(t, SourceText, m.Source)
	assert.Len(t, m.Hash, 64)
	_, err := time.Parse(time.RFC3339, m.Timestamp)
	assert.NoError(t, err)
}

func TestComputeHash(t *testing.T) {
	assert.Equal(t, computeHash("a"), computeHash("a"))
	assert.NotEqual(t, computeHash("a"), computeHash("b"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", computeHash(""))
}

func TestMetadata_JSON(t *testing.T) {
	m := &Metadata{Source: SourceURL, URL: "https://jobs.lever.co/x", Timestamp: "2025-01-01T00:00:00Z", Hash: "h"}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"source":"url","url":"https://jobs.lever.co/x","timestamp":"2025-01-01T00:00:00Z","hash":"h"}`, string(data))
}
