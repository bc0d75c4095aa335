package parsing

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-insight/internal/types"
)

// skillAliases maps common skill name variants to canonical names. All
// canonical forms are lowercase so comparisons across resumes and job
// postings are case-insensitive.
var skillAliases = map[string]string{
	"golang":                "go",
	"go lang":               "go",
	"js":                    "javascript",
	"ts":                    "typescript",
	"k8s":                   "kubernetes",
	"postgres":              "postgresql",
	"psql":                  "postgresql",
	"node":                  "node.js",
	"nodejs":                "node.js",
	"react.js":              "react",
	"reactjs":               "react",
	"vue.js":                "vue",
	"vuejs":                 "vue",
	"amazon web services":   "aws",
	"google cloud":          "gcp",
	"google cloud platform": "gcp",
	"ms sql":                "sql server",
	"mssql":                 "sql server",
	"ci/cd":                 "cicd",
	"scikit learn":          "scikit-learn",
	"sklearn":               "scikit-learn",
	"tensor flow":           "tensorflow",
}

// NormalizeSkill maps a skill name to its canonical lowercase form:
// trim, case-fold, collapse internal whitespace, then alias-resolve.
func NormalizeSkill(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.Join(strings.Fields(normalized), " ")
	if normalized == "" {
		return ""
	}
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeSkills normalizes each skill and deduplicates, preserving
// first-seen order. Empty entries are dropped.
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return skills
	}

	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		normalized := NormalizeSkill(s)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}

// NormalizeProfile enforces the profile invariants in place: the skill
// list holds no duplicate normalized entries, and experience is ordered
// most-recent-first where start dates are comparable. Entries without a
// start date keep their relative position (stable sort).
func NormalizeProfile(p *types.ParsedProfile) {
	if p == nil {
		return
	}

	p.Skills = NormalizeSkills(p.Skills)

	// YYYY-MM strings compare correctly as plain strings. An entry with
	// an empty end date is a current role and sorts before dated peers
	// that started earlier.
	sort.SliceStable(p.Experience, func(i, j int) bool {
		a, b := p.Experience[i].StartDate, p.Experience[j].StartDate
		if a == "" || b == "" {
			return false
		}
		return a > b
	})
}
