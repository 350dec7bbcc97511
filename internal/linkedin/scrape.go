package linkedin

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-builder/internal/types"
)

var profileURLRe = regexp.MustCompile(`^https://(www\.)?linkedin\.com/`)

// Selectors for the fields of a public profile page. Each value lists the
// signed-in and the public layout.
const (
	NameSelector       = `h1.text-heading-xlarge, h1.top-card-layout__title`
	HeadlineSelector   = `.text-body-medium.break-words, .top-card-layout__headline`
	ExperienceSelector = `section[data-section="experience"] .experience-item, #experience-section .pv-entity__summary-info`
	EducationSelector  = `section[data-section="education"] .education-item, #education-section .pv-entity__degree-name`
	SkillsSelector     = `section[data-section="skills"] .skill-category-entity__name, .pv-skill-category-entity__name span`
)

// ValidateProfileURL checks that url points at linkedin.com over https.
func ValidateProfileURL(url string) error {
	if !profileURLRe.MatchString(strings.TrimSpace(url)) {
		return &InvalidSourceError{URL: url}
	}
	return nil
}

// Renderer loads a page in a browser and returns its rendered HTML.
// fetch.Browser satisfies it.
type Renderer interface {
	RenderPage(ctx context.Context, url string) (string, error)
}

// FieldMiss records why a profile field resolved to an empty value.
type FieldMiss struct {
	Field  string
	Reason string
}

// Scraper extracts a profile from a live LinkedIn page.
type Scraper struct {
	renderer Renderer
}

// NewScraper returns a Scraper that loads pages with renderer.
func NewScraper(renderer Renderer) *Scraper {
	return &Scraper{renderer: renderer}
}

// Scrape validates url, renders the page and extracts each field
// independently. Only a failed page load is an error; a field whose markup is
// missing comes back empty.
func (s *Scraper) Scrape(ctx context.Context, url string) (*types.ExtractedProfile, error) {
	if err := ValidateProfileURL(url); err != nil {
		return nil, err
	}

	html, err := s.renderer.RenderPage(ctx, url)
	if err != nil {
		return nil, &ScrapeError{URL: url, Cause: err}
	}

	profile, misses, err := ExtractFields(html)
	if err != nil {
		return nil, &ScrapeError{URL: url, Cause: err}
	}
	for _, m := range misses {
		log.Printf("[linkedin] %s: %s empty (%s)", url, m.Field, m.Reason)
	}
	return profile, nil
}

// fieldResult carries either a value or the reason it could not be read.
type fieldResult[T any] struct {
	value T
	miss  string
}

// ExtractFields reads the profile fields from rendered page HTML. The second
// return value lists the fields that resolved empty and why.
func ExtractFields(html string) (*types.ExtractedProfile, []FieldMiss, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, err
	}

	var misses []FieldMiss
	text := func(field, selector string) string {
		r := firstText(doc, selector)
		if r.miss != "" {
			misses = append(misses, FieldMiss{Field: field, Reason: r.miss})
		}
		return r.value
	}
	list := func(field, selector string) []string {
		r := allText(doc, selector)
		if r.miss != "" {
			misses = append(misses, FieldMiss{Field: field, Reason: r.miss})
		}
		return r.value
	}

	profile := &types.ExtractedProfile{
		Name:       text("name", NameSelector),
		Headline:   text("headline", HeadlineSelector),
		Experience: list("experience", ExperienceSelector),
		Education:  list("education", EducationSelector),
		Skills:     list("skills", SkillsSelector),
	}
	return profile, misses, nil
}

func firstText(doc *goquery.Document, selector string) fieldResult[string] {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return fieldResult[string]{miss: "no element matches " + selector}
	}
	value := strings.TrimSpace(sel.Text())
	if value == "" {
		return fieldResult[string]{miss: "matched element has no text"}
	}
	return fieldResult[string]{value: value}
}

func allText(doc *goquery.Document, selector string) fieldResult[[]string] {
	values := []string{}
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return fieldResult[[]string]{value: values, miss: "no element matches " + selector}
	}
	sel.Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.Text()); v != "" {
			values = append(values, v)
		}
	})
	if len(values) == 0 {
		return fieldResult[[]string]{value: values, miss: "matched elements have no text"}
	}
	return fieldResult[[]string]{value: values}
}
