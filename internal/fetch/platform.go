// Package fetch - platform.go maps job board hosts to content selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a job board.
type Platform string

const (
	PlatformGreenhouse   Platform = "greenhouse"
	PlatformLever        Platform = "lever"
	PlatformWorkday      Platform = "workday"
	PlatformLinkedInJobs Platform = "linkedin-jobs"
	PlatformUnknown      Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	paths    []string
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", "#content"},
		noise:    []string{"#application", ".application--form", "form"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page .content", ".section-wrapper.page-full-width", ".posting"},
		noise:    []string{".postings-btn-wrapper", ".application-form"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='job-posting-details']"},
		noise:    []string{"[data-automation-id='applyButton']"},
	},
	{
		platform: PlatformLinkedInJobs,
		hosts:    []string{"linkedin.com"},
		paths:    []string{"/jobs/"},
		content:  []string{".show-more-less-html__markup", ".description__text", ".jobs-description__content"},
		noise:    []string{".sign-in-modal", ".top-card-layout__cta-container"},
	},
}

// DetectPlatform identifies the job board from a posting URL.
func DetectPlatform(urlStr string) Platform {
	if rule, ok := matchPlatform(urlStr); ok {
		return rule.platform
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors for a platform, falling
// back to the generic job posting selectors.
func PlatformContentSelectors(platform Platform) []string {
	for _, rule := range platformRules {
		if rule.platform == platform {
			return append(append([]string{}, rule.content...), JobPostingSelectors()...)
		}
	}
	return JobPostingSelectors()
}

// PlatformNoiseSelectors returns elements to strip for a platform.
func PlatformNoiseSelectors(platform Platform) []string {
	for _, rule := range platformRules {
		if rule.platform == platform {
			return rule.noise
		}
	}
	return nil
}

func matchPlatform(urlStr string) (platformRule, bool) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return platformRule{}, false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, rule := range platformRules {
		if !hostMatches(host, rule.hosts) {
			continue
		}
		if len(rule.paths) > 0 && !pathMatches(parsed.Path, rule.paths) {
			continue
		}
		return rule, true
	}
	return platformRule{}, false
}

func hostMatches(host string, suffixes []string) bool {
	for _, s := range suffixes {
		if host == s || strings.HasSuffix(host, "."+s) {
			return true
		}
	}
	return false
}

func pathMatches(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
