package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/prompts"
	"github.com/jonathan/resume-insight/internal/schemas"
	"github.com/jonathan/resume-insight/internal/types"
)

// assessQuality asks the model for a quality review of the profile.
// roles may be empty when the role_match stage failed.
func (e *Engine) assessQuality(ctx context.Context, profile *types.ParsedProfile, roles []types.RoleMatch, onFragment llm.FragmentFunc) (*types.QualityAssessment, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	rolesJSON := "[]"
	if len(roles) > 0 {
		if encoded, err := json.Marshal(roles); err == nil {
			rolesJSON = string(encoded)
		}
	}

	template := prompts.MustGet("analysis.json", "assess-quality")
	prompt := prompts.Format(template, map[string]string{
		"Profile": string(profileJSON),
		"Roles":   rolesJSON,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, onFragment)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateJSONString(schemas.QualitySchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err)
	}

	var quality types.QualityAssessment
	if err := json.Unmarshal([]byte(raw), &quality); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err)
	}

	quality.Score = clamp(quality.Score, 0, 10)
	return &quality, nil
}
