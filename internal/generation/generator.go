package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrNotConfigured is returned when no model client is available.
var ErrNotConfigured = errors.New("AI service is not configured")

// Options configures a Generator.
type Options struct {
	PrimaryTier  llm.ModelTier
	FallbackTier llm.ModelTier
	Timeout      time.Duration
	// HealthRouting starts at the fallback tier while the monitor reports a
	// poor recent success rate.
	HealthRouting bool
}

// DefaultOptions uses the advanced tier with the standard tier as fallback.
func DefaultOptions() Options {
	return Options{
		PrimaryTier:  llm.TierAdvanced,
		FallbackTier: llm.TierStandard,
		Timeout:      llm.DefaultTimeout,
	}
}

// Generator produces ATS-optimized content for a resume draft.
type Generator struct {
	caller
	classifier *llm.QuotaClassifier
	opts       Options
}

// NewGenerator creates a Generator. client may be nil, in which case every
// call fails with ErrNotConfigured.
func NewGenerator(client llm.Client, classifier *llm.QuotaClassifier, mon *monitor.Monitor, opts Options) *Generator {
	if classifier == nil {
		classifier = llm.NewQuotaClassifier(0)
	}
	if opts.PrimaryTier == "" {
		opts.PrimaryTier = llm.TierAdvanced
	}
	if opts.FallbackTier == "" {
		opts.FallbackTier = llm.TierStandard
	}
	return &Generator{
		caller:     newCaller(client, mon, opts.Timeout),
		classifier: classifier,
		opts:       opts,
	}
}

// Generate asks the primary model for content and falls back to the lighter
// tier only when the primary failure is a quota condition. The caller is
// expected to have checked that jobDescription is not empty.
func (g *Generator) Generate(ctx context.Context, draft types.ResumeDraft, jobDescription string) (*types.GeneratedContent, error) {
	if g.client == nil {
		return nil, &GenerationFailedError{Details: ErrNotConfigured.Error(), Err: ErrNotConfigured}
	}

	prompt, err := buildGenerationPrompt(draft, jobDescription)
	if err != nil {
		return nil, failed(err)
	}

	first, second := g.opts.PrimaryTier, g.opts.FallbackTier
	if g.opts.HealthRouting && g.monitor.ShouldUseBackup() {
		log.Printf("[generate] recent success rate is low, starting at %s", g.client.GetModel(second))
		first, second = second, ""
	}

	content, err := g.attempt(ctx, first, prompt, draft)
	if err == nil {
		return content, nil
	}

	quota := g.classifier.Classify(err)
	if !quota.IsQuota {
		log.Printf("[generate] %s failed: %v", g.client.GetModel(first), err)
		return nil, failed(err)
	}
	if second == "" {
		return nil, &QuotaExceededError{RetryAfter: quota.RetryAfter, Err: err}
	}

	log.Printf("[generate] quota exceeded for %s, trying %s", g.client.GetModel(first), g.client.GetModel(second))
	content, err = g.attempt(ctx, second, prompt, draft)
	if err == nil {
		return content, nil
	}

	if quota := g.classifier.Classify(err); quota.IsQuota {
		log.Printf("[generate] fallback %s also rate limited, retry after %ds", g.client.GetModel(second), quota.RetryAfterSeconds())
		return nil, &QuotaExceededError{RetryAfter: quota.RetryAfter, Err: err}
	}
	log.Printf("[generate] fallback %s failed: %v", g.client.GetModel(second), err)
	return nil, failed(err)
}

func (g *Generator) attempt(ctx context.Context, tier llm.ModelTier, prompt string, draft types.ResumeDraft) (*types.GeneratedContent, error) {
	var content *types.GeneratedContent
	err := g.do(ctx, tier, func(ctx context.Context) error {
		reply, err := g.client.GenerateJSON(ctx, prompt, tier)
		if err != nil {
			return err
		}
		content, err = decodeGeneratedContent(reply, draft)
		return err
	})
	return content, err
}

func buildGenerationPrompt(draft types.ResumeDraft, jobDescription string) (string, error) {
	resumeJSON, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode resume data: %w", err)
	}
	instructions, err := prompts.Render("generation.json", "generate-resume", map[string]string{
		"ResumeData":     string(resumeJSON),
		"JobDescription": jobDescription,
	})
	if err != nil {
		return "", err
	}
	return llm.BuildStructuredPrompt(instructions, llm.GeneratedContentSchema()), nil
}

// decodeGeneratedContent validates the reply against the content schema and
// drops experiences whose id is not in the draft.
func decodeGeneratedContent(reply string, draft types.ResumeDraft) (*types.GeneratedContent, error) {
	cleaned := llm.CleanJSONBlock(reply)
	if err := schemas.Validate(schemas.GeneratedContent, cleaned); err != nil {
		return nil, &ReplyError{Reply: reply, Err: err}
	}

	var content types.GeneratedContent
	if err := json.Unmarshal([]byte(cleaned), &content); err != nil {
		return nil, &ReplyError{Reply: reply, Err: err}
	}

	known := draft.ExperienceIDs()
	kept := make([]types.GeneratedExperience, 0, len(content.Experiences))
	for _, exp := range content.Experiences {
		if _, ok := known[exp.ID]; !ok {
			log.Printf("[generate] dropping experience with unknown id %q", exp.ID)
			continue
		}
		kept = append(kept, normalizeExperience(exp))
	}
	content.Experiences = kept
	content.Skills.Technical = nonNil(content.Skills.Technical)
	content.Skills.Soft = nonNil(content.Skills.Soft)
	content.Suggestions = nonNil(content.Suggestions)
	return &content, nil
}

func normalizeExperience(exp types.GeneratedExperience) types.GeneratedExperience {
	exp.BulletPoints = nonNil(exp.BulletPoints)
	exp.Keywords = nonNil(exp.Keywords)
	return exp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NewGenerationRecord builds the audit record the caller persists after a
// successful generation.
func NewGenerationRecord(userID uuid.UUID, draft types.ResumeDraft, jobDescription string, content types.GeneratedContent) types.GenerationRecord {
	return types.GenerationRecord{
		ID:               uuid.New(),
		UserID:           userID,
		OriginalData:     draft,
		JobDescription:   jobDescription,
		GeneratedContent: content,
		CreatedAt:        time.Now().UTC(),
	}
}
