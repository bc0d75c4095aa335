package types

// RoadmapTier is one of the four learning-plan horizons.
type RoadmapTier string

// Roadmap tiers in ascending time horizon.
const (
	TierImmediate  RoadmapTier = "immediate"
	TierOneMonth   RoadmapTier = "1-month"
	TierThreeMonth RoadmapTier = "3-month"
	TierSixMonth   RoadmapTier = "6-month"
)

// SkillDemand is one required skill with its frequency across the
// analyzed posting set.
type SkillDemand struct {
	Skill     string `json:"skill"`
	Frequency int    `json:"frequency"` // number of postings requiring it
}

// Roadmap buckets missing skills into the four tiers.
type Roadmap struct {
	Immediate  []string `json:"immediate"`
	OneMonth   []string `json:"one_month"`
	ThreeMonth []string `json:"three_month"`
	SixMonth   []string `json:"six_month"`
}

// TierFor returns the tier a skill was assigned to, or "" if the skill
// is not in the roadmap.
func (r *Roadmap) TierFor(skill string) RoadmapTier {
	for _, s := range r.Immediate {
		if s == skill {
			return TierImmediate
		}
	}
	for _, s := range r.OneMonth {
		if s == skill {
			return TierOneMonth
		}
	}
	for _, s := range r.ThreeMonth {
		if s == skill {
			return TierThreeMonth
		}
	}
	for _, s := range r.SixMonth {
		if s == skill {
			return TierSixMonth
		}
	}
	return ""
}

// SkillGapReport compares resume skills against aggregate market demand
// for one target role.
type SkillGapReport struct {
	Role         string        `json:"role"`
	JobsAnalyzed int           `json:"jobs_analyzed"`
	ResumeSkills []string      `json:"resume_skills"`
	Required     []SkillDemand `json:"required"` // first-seen order
	Matched      []string      `json:"matched"`
	Missing      []SkillDemand `json:"missing"`   // frequency descending, first-seen tie-break
	Readiness    int           `json:"readiness"` // percentage in [0,100]
	Roadmap      Roadmap       `json:"roadmap"`
}
