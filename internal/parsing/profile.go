// Package parsing turns raw resume text into a validated ParsedProfile
// and provides the skill normalization used across the system.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/prompts"
	"github.com/jonathan/resume-insight/internal/schemas"
	"github.com/jonathan/resume-insight/internal/types"
)

// LLMParser extracts a structured profile from resume text by prompting
// the model for schema-conformant JSON.
type LLMParser struct {
	client llm.Client
}

// NewLLMParser creates a parser backed by the given model client.
func NewLLMParser(client llm.Client) *LLMParser {
	return &LLMParser{client: client}
}

// Parse extracts a ParsedProfile from the document. Fragments are
// forwarded to onFragment as the model streams. The returned profile
// satisfies the normalization invariants.
func (p *LLMParser) Parse(ctx context.Context, doc types.ResumeDocument, onFragment llm.FragmentFunc) (*types.ParsedProfile, error) {
	template := prompts.MustGet("analysis.json", "parse-profile")
	prompt := prompts.Format(template, map[string]string{
		"ResumeText": string(doc.Content),
	})

	raw, err := p.client.GenerateJSON(ctx, prompt, onFragment)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateJSONString(schemas.ProfileSchema, raw); err != nil {
		return nil, &ParseError{
			Message: "profile failed schema validation",
			Cause:   fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err),
		}
	}

	var profile types.ParsedProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, &ParseError{
			Message: "failed to decode profile JSON",
			Cause:   fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err),
		}
	}

	if isEmptyExtraction(&profile) {
		return nil, &ParseError{Message: "empty extraction: no recognizable resume content"}
	}

	NormalizeProfile(&profile)
	return &profile, nil
}

// isEmptyExtraction reports whether the model found nothing usable.
// A profile with a name but neither skills nor work history gives the
// downstream stages nothing to analyze.
func isEmptyExtraction(p *types.ParsedProfile) bool {
	return len(p.Skills) == 0 && len(p.Experience) == 0
}
