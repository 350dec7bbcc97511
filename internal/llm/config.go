// Package llm provides the generation model configuration and client abstraction
// used by resume generation, profile enhancement and section refinement.
package llm

import "time"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for cheap conversational work: chat replies, short rewrites
	TierLite ModelTier = "lite"
	// TierStandard is the lighter generation model, used as the quota fallback
	TierStandard ModelTier = "standard"
	// TierAdvanced is the primary generation model
	TierAdvanced ModelTier = "advanced"
)

// DefaultTimeout bounds a single model invocation.
const DefaultTimeout = 60 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.4,
		Timeout:     DefaultTimeout,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// standard, then lite
	if model, ok := c.Models[TierStandard]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierLite]; ok && model != "" {
		return model
	}
	return ""
}

func (c *Config) clone() *Config {
	next := &Config{
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	return next
}

// WithModel returns a copy of the config with a specific model for a tier.
// An empty model name leaves the tier unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := c.clone()
	if model != "" {
		next.Models[tier] = model
	}
	return next
}

// WithTimeout returns a copy of the config with the given per-call timeout.
func (c *Config) WithTimeout(d time.Duration) *Config {
	next := c.clone()
	if d > 0 {
		next.Timeout = d
	}
	return next
}
