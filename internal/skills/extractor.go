// Package skills extracts skill demand from job postings and computes
// market readiness against a resume's skill set.
package skills

import (
	"regexp"
	"strings"
	"sync"

	"github.com/jonathan/resume-insight/internal/parsing"
	"github.com/jonathan/resume-insight/internal/types"
)

// vocabulary is the canonical skill list matched against posting text.
// Entries are lowercase canonical forms; variants are handled by the
// parsing alias table plus word-boundary matching here.
var vocabulary = []string{
	"python", "java", "go", "javascript", "typescript", "c++", "c#",
	"ruby", "rust", "php", "kotlin", "swift", "scala", "r",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"cassandra", "dynamodb", "sqlite", "oracle",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform",
	"ansible", "jenkins", "cicd", "git", "linux",
	"react", "angular", "vue", "node.js", "django", "flask",
	"spring", "rails", ".net", "graphql", "rest",
	"kafka", "rabbitmq", "spark", "hadoop", "airflow",
	"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch",
	"machine learning", "deep learning", "nlp", "data analysis",
	"etl", "data warehousing", "tableau", "power bi", "excel",
	"agile", "scrum", "microservices", "grpc",
}

var (
	patternOnce sync.Once
	patterns    map[string]*regexp.Regexp
)

// wordyName matches vocabulary entries made only of letters, digits,
// spaces and hyphens, where \b boundaries behave.
var wordyName = regexp.MustCompile(`^[a-z0-9]+([ -][a-z0-9]+)*$`)

// skillPatterns compiles one word-boundary pattern per vocabulary
// entry. Symbol-bearing names like "c++" and ".net" get hand-built
// boundaries since \b misfires around punctuation.
func skillPatterns() map[string]*regexp.Regexp {
	patternOnce.Do(func() {
		patterns = make(map[string]*regexp.Regexp, len(vocabulary))
		for _, skill := range vocabulary {
			escaped := regexp.QuoteMeta(skill)
			var expr string
			if wordyName.MatchString(skill) {
				expr = `(?i)\b` + escaped + `\b`
			} else {
				expr = `(?i)(^|[^\w+#.])` + escaped + `($|[^\w+#.])`
			}
			patterns[skill] = regexp.MustCompile(expr)
		}
	})
	return patterns
}

// Extract returns the normalized skill tokens found in free text, in
// vocabulary order. Matching is case-insensitive and word-boundary
// aware, so "go" does not fire inside "category".
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var found []string
	for _, skill := range vocabulary {
		if skillPatterns()[skill].MatchString(text) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractFromPosting combines skills found in the posting description
// with any already attached to the posting, normalized and deduplicated.
func ExtractFromPosting(p types.JobPosting) []string {
	combined := append(parsing.NormalizeSkills(p.Skills), Extract(p.Description)...)
	return parsing.NormalizeSkills(combined)
}
