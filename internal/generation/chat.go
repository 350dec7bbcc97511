package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// Chat streams conversational resume advice.
type Chat struct {
	caller
	tier llm.ModelTier
}

// NewChat creates a Chat on the standard tier.
func NewChat(client llm.Client, mon *monitor.Monitor, opts Options) *Chat {
	return &Chat{caller: newCaller(client, mon, opts.Timeout), tier: llm.TierStandard}
}

// Stream sends the conversation and forwards each reply chunk to onChunk.
// Unlike generation, the stream follows ctx so a closed client connection
// stops it.
func (c *Chat) Stream(ctx context.Context, req types.ChatRequest, onChunk func(string) error) error {
	if c.client == nil {
		return &GenerationFailedError{Details: ErrNotConfigured.Error(), Err: ErrNotConfigured}
	}

	system, err := chatSystemPrompt(req.ResumeContext)
	if err != nil {
		return failed(err)
	}

	turns := make([]llm.Turn, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := llm.RoleModel
		if msg.Role == types.ChatRoleUser {
			role = llm.RoleUser
		}
		turns = append(turns, llm.Turn{Role: role, Text: msg.Content})
	}

	streamCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	call := c.monitor.StartCall(c.client.GetModel(c.tier))
	err = c.client.StreamChat(streamCtx, system, turns, c.tier, onChunk)
	c.monitor.EndCall(call, err == nil, err, 0)
	if err != nil {
		return failed(err)
	}
	return nil
}

func chatSystemPrompt(resume *types.ResumeDraft) (string, error) {
	resumeJSON := "{}"
	if resume != nil {
		data, err := json.MarshalIndent(resume, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode resume context: %w", err)
		}
		resumeJSON = string(data)
	}
	return prompts.Render("refinement.json", "chat-system", map[string]string{"ResumeContext": resumeJSON})
}
