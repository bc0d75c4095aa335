package skills

import (
	"math"
	"sort"

	"github.com/jonathan/resume-insight/internal/parsing"
	"github.com/jonathan/resume-insight/internal/types"
)

// Analyze compares a resume's skills against the demand across the
// posting set for one role. The result is deterministic for a fixed
// (resume skills, postings) pair.
func Analyze(resumeSkills []string, postings []types.JobPosting, role string) *types.SkillGapReport {
	normalized := parsing.NormalizeSkills(resumeSkills)
	resumeSet := make(map[string]bool, len(normalized))
	for _, s := range normalized {
		resumeSet[s] = true
	}

	// Frequency counts postings requiring the skill, in first-seen order.
	required := requiredSkills(postings)

	var matched []string
	var missing []types.SkillDemand
	for _, demand := range required {
		if resumeSet[demand.Skill] {
			matched = append(matched, demand.Skill)
		} else {
			missing = append(missing, demand)
		}
	}

	// Rank missing by frequency descending. The stable sort keeps the
	// first-seen order as tie-break across equal frequencies.
	sort.SliceStable(missing, func(i, j int) bool {
		return missing[i].Frequency > missing[j].Frequency
	})

	return &types.SkillGapReport{
		Role:         role,
		JobsAnalyzed: len(postings),
		ResumeSkills: normalized,
		Required:     required,
		Matched:      matched,
		Missing:      missing,
		Readiness:    readiness(len(matched), len(required)),
		Roadmap:      buildRoadmap(missing),
	}
}

// requiredSkills builds the per-skill posting counts, preserving the
// order skills are first seen across the posting set.
func requiredSkills(postings []types.JobPosting) []types.SkillDemand {
	counts := make(map[string]int)
	var order []string

	for _, posting := range postings {
		for _, skill := range ExtractFromPosting(posting) {
			if _, seen := counts[skill]; !seen {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	demands := make([]types.SkillDemand, 0, len(order))
	for _, skill := range order {
		demands = append(demands, types.SkillDemand{Skill: skill, Frequency: counts[skill]})
	}
	return demands
}

// readiness is the matched share of required skills as a percentage,
// 100 when nothing is required, always within [0,100].
func readiness(matched, required int) int {
	if required == 0 {
		return 100
	}
	pct := int(math.Round(100 * float64(matched) / float64(required)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// buildRoadmap slices the ranked missing skills into four tiers of
// ceil(n/4): the highest-demand quartile is learned first.
func buildRoadmap(missing []types.SkillDemand) types.Roadmap {
	names := make([]string, len(missing))
	for i, demand := range missing {
		names[i] = demand.Skill
	}

	tierSize := (len(names) + 3) / 4
	take := func() []string {
		if len(names) == 0 {
			return nil
		}
		n := tierSize
		if n > len(names) {
			n = len(names)
		}
		tier := names[:n]
		names = names[n:]
		return tier
	}

	return types.Roadmap{
		Immediate:  take(),
		OneMonth:   take(),
		ThreeMonth: take(),
		SixMonth:   take(),
	}
}
