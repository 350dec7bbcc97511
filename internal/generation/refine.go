package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// Refiner rewrites a single resume section from a client-held conversation.
type Refiner struct {
	caller
	tier llm.ModelTier
}

// NewRefiner creates a Refiner on the standard tier.
func NewRefiner(client llm.Client, mon *monitor.Monitor, opts Options) *Refiner {
	return &Refiner{caller: newCaller(client, mon, opts.Timeout), tier: llm.TierStandard}
}

// Refine performs exactly one model call and returns the revision together
// with the history extended by the user message and the reply.
func (r *Refiner) Refine(ctx context.Context, req types.RefineSectionRequest) (*types.RefineSectionResponse, error) {
	if r.client == nil {
		return nil, &GenerationFailedError{Details: ErrNotConfigured.Error(), Err: ErrNotConfigured}
	}

	prompt, err := prompts.Render("refinement.json", "refine-section", map[string]string{
		"SectionType":    req.SectionType,
		"SectionContent": req.SectionContent,
		"History":        renderHistory(req.ChatHistory),
		"UserMessage":    req.UserMessage,
	})
	if err != nil {
		return nil, failed(err)
	}

	var reply string
	err = r.do(ctx, r.tier, func(ctx context.Context) error {
		var err error
		reply, err = r.client.GenerateContent(ctx, prompt, r.tier)
		if err == nil && strings.TrimSpace(reply) == "" {
			err = errors.New("model returned an empty revision")
		}
		return err
	})
	if err != nil {
		return nil, failed(err)
	}
	reply = strings.TrimSpace(reply)

	history := make([]types.ChatMessage, 0, len(req.ChatHistory)+2)
	history = append(history, req.ChatHistory...)
	history = append(history,
		types.ChatMessage{Role: types.ChatRoleUser, Content: req.UserMessage},
		types.ChatMessage{Role: types.ChatRoleAI, Content: reply},
	)

	return &types.RefineSectionResponse{RevisedContent: reply, ChatHistory: history}, nil
}

func renderHistory(history []types.ChatMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "AI"
		if msg.Role == types.ChatRoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}
