// Package llm - extractor.go builds structured-output prompts from a field list.
package llm

import (
	"fmt"
	"strings"
)

// OutputSchema describes the JSON object a model must return.
type OutputSchema struct {
	Name   string
	Fields []SchemaField
}

// SchemaField defines a single field of the structured reply.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // shape hint shown to the model
	Description string
	Required    bool
}

// BuildStructuredPrompt appends the output contract to an instruction block.
func BuildStructuredPrompt(instructions string, schema OutputSchema) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(instructions))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, typeHint))
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			sb.WriteString(" // " + field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")

	return sb.String()
}

// GeneratedContentSchema is the reply contract for resume generation.
func GeneratedContentSchema() OutputSchema {
	return OutputSchema{
		Name: "GeneratedContent",
		Fields: []SchemaField{
			{
				Name:        "summary",
				Type:        `"string"`,
				Description: "Professional summary tailored to the job description",
				Required:    true,
			},
			{
				Name:        "experiences",
				Type:        `[{"id": "string", "bulletPoints": ["string"], "keywords": ["string"]}]`,
				Description: "One entry per input experience, keyed by its id; at most 3 ATS-optimized bullet points each",
				Required:    true,
			},
			{
				Name:        "skills",
				Type:        `{"technical": ["string"], "soft": ["string"]}`,
				Description: "Skills to highlight for this role",
				Required:    true,
			},
			{
				Name:        "suggestions",
				Type:        `["string"]`,
				Description: "Suggestions to improve ATS compatibility",
				Required:    true,
			},
		},
	}
}

// EnhancedProfileSchema is the reply contract for profile enhancement.
func EnhancedProfileSchema() OutputSchema {
	return OutputSchema{
		Name: "EnhancedProfile",
		Fields: []SchemaField{
			{
				Name:        "summary",
				Type:        `"string"`,
				Description: "2-3 sentence ATS-optimized professional summary",
				Required:    true,
			},
			{
				Name:        "enhancedExperience",
				Type:        `["string"]`,
				Description: "One improved bullet per experience entry, same order as the input",
				Required:    true,
			},
			{
				Name:        "keywords",
				Type:        `["string"]`,
				Description: "Relevant industry keywords",
				Required:    true,
			},
			{
				Name:        "suggestions",
				Type:        `["string"]`,
				Description: "Ways to improve the profile",
				Required:    true,
			},
		},
	}
}
