package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/prompts"
	"github.com/jonathan/resume-insight/internal/schemas"
	"github.com/jonathan/resume-insight/internal/types"
)

// roleMatchResponse is the wire shape of the role recommendation output.
type roleMatchResponse struct {
	Matches []types.RoleMatch `json:"matches"`
}

// matchRoles asks the model for up to three role recommendations and
// returns them ordered by confidence descending.
func (e *Engine) matchRoles(ctx context.Context, profile *types.ParsedProfile, onFragment llm.FragmentFunc) ([]types.RoleMatch, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	template := prompts.MustGet("analysis.json", "match-roles")
	prompt := prompts.Format(template, map[string]string{
		"Profile": string(profileJSON),
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, onFragment)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateJSONString(schemas.RoleMatchSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err)
	}

	var resp roleMatchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedOutput, err)
	}

	for i := range resp.Matches {
		resp.Matches[i].Confidence = clamp(resp.Matches[i].Confidence, 0, 100)
	}
	sort.SliceStable(resp.Matches, func(i, j int) bool {
		return resp.Matches[i].Confidence > resp.Matches[j].Confidence
	})
	if len(resp.Matches) > 3 {
		resp.Matches = resp.Matches[:3]
	}

	return resp.Matches, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
