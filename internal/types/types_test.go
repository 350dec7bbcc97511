package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeDraft_ExperienceIDs(t *testing.T) {
	draft := ResumeDraft{Experience: []ExperienceEntry{{ID: "a"}, {ID: "b"}}}
	ids := draft.ExperienceIDs()

	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "a")
	assert.Contains(t, ids, "b")
}

func TestResumeDraft_JSONFieldNames(t *testing.T) {
	raw := `{
		"personalInfo": {"fullName": "Jane Smith", "email": "jane@example.com", "linkedin": "https://linkedin.com/in/jane"},
		"experience": [{"id": "1", "company": "Acme", "position": "Engineer", "current": true}],
		"skills": {"technical": ["Go"], "soft": ["Mentoring"]},
		"jobDescription": "Backend role"
	}`

	var draft ResumeDraft
	require.NoError(t, json.Unmarshal([]byte(raw), &draft))

	assert.Equal(t, "Jane Smith", draft.PersonalInfo.FullName)
	assert.Equal(t, "https://linkedin.com/in/jane", draft.PersonalInfo.LinkedIn)
	assert.True(t, draft.Experience[0].Current)
	assert.Equal(t, []string{"Go"}, draft.Skills.Technical)
	assert.Equal(t, "Backend role", draft.JobDescription)
}

func TestGenerateRequest_Validate(t *testing.T) {
	assert.NoError(t, (&GenerateRequest{JobDescription: "Go developer"}).Validate())
	assert.Error(t, (&GenerateRequest{}).Validate())
}

func TestRefineSectionRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request RefineSectionRequest
		wantErr bool
	}{
		{
			name:    "valid with history",
			request: RefineSectionRequest{SectionType: "summary", UserMessage: "shorter", ChatHistory: []ChatMessage{{Role: "user", Content: "hi"}, {Role: "ai", Content: "hello"}}},
		},
		{
			name:    "missing section type",
			request: RefineSectionRequest{UserMessage: "shorter"},
			wantErr: true,
		},
		{
			name:    "missing user message",
			request: RefineSectionRequest{SectionType: "summary"},
			wantErr: true,
		},
		{
			name:    "unknown role",
			request: RefineSectionRequest{SectionType: "summary", UserMessage: "x", ChatHistory: []ChatMessage{{Role: "system"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChatRequest_Validate(t *testing.T) {
	assert.Error(t, (&ChatRequest{}).Validate())
	assert.NoError(t, (&ChatRequest{Messages: []ChatMessage{{Role: "user", Content: "help"}}}).Validate())
}

func TestEnhancedProfile_Degraded(t *testing.T) {
	assert.False(t, EnhancedProfile{Summary: "ok"}.Degraded())
	assert.True(t, EnhancedProfile{Error: "AI enhancement failed"}.Degraded())
	assert.True(t, EnhancedProfile{RawAIResponse: "not json"}.Degraded())
}
