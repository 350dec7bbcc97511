// Package ratelimit throttles inbound requests per client and endpoint with
// token buckets.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one method and path. A path ending in "/" matches every path
// under it.
type Rule struct {
	Method string
	Path   string
	Limit  int           // requests per Window
	Window time.Duration // refill period for Limit tokens
	Burst  int           // bucket capacity, Limit when zero
}

func (r Rule) capacity() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

func (r Rule) key() string {
	return r.Method + " " + r.Path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL       time.Duration
	SweepInterval time.Duration
	Allowlist     map[string]bool
	Denylist      map[string]bool
	Rules         []Rule
}

// DefaultConfig returns an enabled configuration with DefaultRules.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  600,
		DefaultWindow: time.Minute,
		IdleTTL:       time.Hour,
		SweepInterval: 5 * time.Minute,
		Allowlist:     map[string]bool{},
		Denylist:      map[string]bool{},
		Rules:         DefaultRules(30),
	}
}

// LoadConfig reads RATE_LIMIT_* variables over DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = envBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return cfg
	}

	cfg.DefaultLimit = envInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = envDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.SweepInterval = envDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.SweepInterval)
	cfg.Allowlist = parseClientList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Denylist = parseClientList(os.Getenv("RATE_LIMIT_BLACKLIST"))
	cfg.Rules = DefaultRules(envInt("RATE_LIMIT_AI_PER_HOUR", 30))
	return cfg
}

// DefaultRules returns per-endpoint limits. aiPerHour applies to every
// endpoint that calls the model.
func DefaultRules(aiPerHour int) []Rule {
	return []Rule{
		// model calls
		{Method: "POST", Path: "/generate-resume", Limit: aiPerHour, Window: time.Hour, Burst: 5},
		{Method: "POST", Path: "/refine-section", Limit: aiPerHour * 2, Window: time.Hour, Burst: 10},
		{Method: "POST", Path: "/chat-resume", Limit: aiPerHour * 2, Window: time.Hour, Burst: 10},
		{Method: "POST", Path: "/linkedin-import", Limit: 20, Window: time.Hour, Burst: 3},

		// headless browser
		{Method: "POST", Path: "/export/pdf", Limit: 30, Window: time.Minute, Burst: 5},

		// credentials
		{Method: "POST", Path: "/auth/", Limit: 10, Window: time.Minute, Burst: 5},

		// writes
		{Method: "POST", Path: "/job-descriptions", Limit: 30, Window: time.Minute, Burst: 10},
		{Method: "POST", Path: "/resumes", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "PUT", Path: "/resumes/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: "DELETE", Path: "/resumes/", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// Match returns the rule for a request. Exact paths win over prefixes.
// exempt reports requests that are never limited.
func Match(method, path string, rules []Rule) (rule Rule, found, exempt bool) {
	if method == "OPTIONS" || (method == "GET" && path == "/health") {
		return Rule{}, false, true
	}
	for _, r := range rules {
		if r.Method == method && r.Path == path {
			return r, true, false
		}
	}
	for _, r := range rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r, true, false
		}
	}
	return Rule{}, false, false
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func parseClientList(list string) map[string]bool {
	out := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out[item] = true
		}
	}
	return out
}
