// Package enhance asks the model to improve an extracted LinkedIn profile.
// Enhancement never fails: every error path returns a usable fallback record.
package enhance

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/monitor"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultSummary is used when the profile has no headline.
const DefaultSummary = "Professional with diverse experience"

// FailureMessage marks a record produced after a failed model call.
const FailureMessage = "AI enhancement failed"

// DefaultSuggestions are returned whenever the model output is unavailable.
var DefaultSuggestions = []string{
	"Consider adding more specific achievements",
	"Quantify your impact where possible",
}

// Enhancer runs the enhancement prompt. A nil client means no credentials are
// configured and every call returns the fallback without contacting a model.
type Enhancer struct {
	client  llm.Client
	monitor *monitor.Monitor
	tier    llm.ModelTier
	timeout time.Duration
}

// NewEnhancer creates an Enhancer on the standard tier.
func NewEnhancer(client llm.Client, mon *monitor.Monitor, timeout time.Duration) *Enhancer {
	if mon == nil {
		mon = monitor.New()
	}
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Enhancer{client: client, monitor: mon, tier: llm.TierStandard, timeout: timeout}
}

// Fallback builds the record returned when the model is not used: the
// headline as summary, raw experience and skills, and the generic suggestions.
func Fallback(profile types.ExtractedProfile) types.EnhancedProfile {
	summary := profile.Headline
	if summary == "" {
		summary = DefaultSummary
	}
	return types.EnhancedProfile{
		Summary:            summary,
		EnhancedExperience: copyOrEmpty(profile.Experience),
		Keywords:           copyOrEmpty(profile.Skills),
		Suggestions:        copyOrEmpty(DefaultSuggestions),
	}
}

// Enhance returns the model's view of profile, or a fallback record. A failed
// call sets Error and Details; an unreadable reply becomes the summary and is
// kept in RawAIResponse.
func (e *Enhancer) Enhance(ctx context.Context, profile types.ExtractedProfile) types.EnhancedProfile {
	if e.client == nil {
		log.Printf("[enhance] Model client not configured, skipping enhancement")
		return Fallback(profile)
	}

	prompt, err := buildPrompt(profile)
	if err != nil {
		return failure(profile, err)
	}

	reply, err := e.call(ctx, prompt)
	if err != nil {
		log.Printf("[enhance] Model call failed: %v", err)
		return failure(profile, err)
	}

	enhanced, err := decode(reply)
	if err != nil {
		log.Printf("[enhance] Could not parse reply: %v", err)
		fb := Fallback(profile)
		if raw := strings.TrimSpace(reply); raw != "" {
			fb.Summary = raw
		}
		fb.RawAIResponse = reply
		return fb
	}
	return *enhanced
}

func (e *Enhancer) call(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	call := e.monitor.StartCall(e.client.GetModel(e.tier))
	reply, err := e.client.GenerateJSON(callCtx, prompt, e.tier)
	e.monitor.EndCall(call, err == nil, err, 0)
	return reply, err
}

func buildPrompt(profile types.ExtractedProfile) (string, error) {
	instructions, err := prompts.Render("enhancement.json", "enhance-profile", map[string]string{
		"Name":       profile.Name,
		"Headline":   profile.Headline,
		"Experience": strings.Join(profile.Experience, ", "),
		"Education":  strings.Join(profile.Education, ", "),
		"Skills":     strings.Join(profile.Skills, ", "),
	})
	if err != nil {
		return "", err
	}
	return llm.BuildStructuredPrompt(instructions, llm.EnhancedProfileSchema()), nil
}

func decode(reply string) (*types.EnhancedProfile, error) {
	cleaned := llm.CleanJSONBlock(reply)
	if err := schemas.Validate(schemas.EnhancedProfile, cleaned); err != nil {
		return nil, err
	}
	var out types.EnhancedProfile
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, err
	}
	out.EnhancedExperience = copyOrEmpty(out.EnhancedExperience)
	out.Keywords = copyOrEmpty(out.Keywords)
	out.Suggestions = copyOrEmpty(out.Suggestions)
	return &out, nil
}

func failure(profile types.ExtractedProfile, err error) types.EnhancedProfile {
	fb := Fallback(profile)
	fb.Error = FailureMessage
	fb.Details = err.Error()
	return fb
}

func copyOrEmpty(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
