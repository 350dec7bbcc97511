package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

func TestRefine_AppendsHistory(t *testing.T) {
	var gotPrompt string
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			gotPrompt = prompt
			assert.Equal(t, llm.TierStandard, tier)
			return "  Seasoned Go engineer with 8 years in payments.\n", nil
		},
	}
	req := types.RefineSectionRequest{
		SectionType:    "summary",
		SectionContent: "Engineer who codes.",
		ChatHistory: []types.ChatMessage{
			{Role: "user", Content: "Mention payments"},
			{Role: "ai", Content: "Engineer in payments."},
		},
		UserMessage: "Add years of experience",
	}

	resp, err := NewRefiner(client, nil, DefaultOptions()).Refine(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Seasoned Go engineer with 8 years in payments.", resp.RevisedContent)
	require.Len(t, resp.ChatHistory, 4)
	assert.Equal(t, types.ChatMessage{Role: "user", Content: "Add years of experience"}, resp.ChatHistory[2])
	assert.Equal(t, types.ChatMessage{Role: "ai", Content: resp.RevisedContent}, resp.ChatHistory[3])

	assert.Contains(t, gotPrompt, "Section Type: summary")
	assert.Contains(t, gotPrompt, "Current Content: Engineer who codes.")
	assert.Contains(t, gotPrompt, "User: Mention payments\nAI: Engineer in payments.")
	assert.Contains(t, gotPrompt, "User: Add years of experience")
	assert.Equal(t, 1, client.callsFor(llm.TierStandard))
}

func TestRefine_DoesNotMutateRequestHistory(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) { return "v2", nil },
	}
	history := make([]types.ChatMessage, 1, 4)
	history[0] = types.ChatMessage{Role: "user", Content: "first"}

	_, err := NewRefiner(client, nil, DefaultOptions()).Refine(context.Background(), types.RefineSectionRequest{
		SectionType: "skills", ChatHistory: history, UserMessage: "again",
	})

	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRefine_ModelError(t *testing.T) {
	modelErr := errors.New("upstream unavailable")
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) { return "", modelErr },
	}

	_, err := NewRefiner(client, nil, DefaultOptions()).Refine(context.Background(), types.RefineSectionRequest{
		SectionType: "summary", UserMessage: "x",
	})

	var gf *GenerationFailedError
	require.True(t, errors.As(err, &gf))
	assert.ErrorIs(t, err, modelErr)
}

func TestRefine_EmptyReply(t *testing.T) {
	client := &MockLLMClient{
		GenerateContentFunc: func(context.Context, string, llm.ModelTier) (string, error) { return "   ", nil },
	}

	_, err := NewRefiner(client, nil, DefaultOptions()).Refine(context.Background(), types.RefineSectionRequest{
		SectionType: "summary", UserMessage: "x",
	})

	assert.Error(t, err)
}

func TestRefine_NotConfigured(t *testing.T) {
	_, err := NewRefiner(nil, nil, DefaultOptions()).Refine(context.Background(), types.RefineSectionRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRenderHistory(t *testing.T) {
	out := renderHistory([]types.ChatMessage{
		{Role: "user", Content: "a"},
		{Role: "ai", Content: "b"},
	})
	assert.Equal(t, "User: a\nAI: b", out)
	assert.Equal(t, "", renderHistory(nil))
}
