package jobs

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-insight/internal/types"
)

// DedupKey returns the cross-provider merge identity of a posting: the
// normalized title|company|location triple. Normalization is case-fold,
// trim, collapse whitespace.
func DedupKey(p types.JobPosting) string {
	return normalizeField(p.Title) + "|" + normalizeField(p.Company) + "|" + normalizeField(p.Location)
}

func normalizeField(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// Merge deduplicates postings. Two postings are the same listing when
// their normalized triples match or when they carry the same
// provider-native id, regardless of which provider returned them.
// Duplicates keep the most recent PostedAt and the union of extracted
// skills; otherwise the first-seen posting wins field by field.
func Merge(postings []types.JobPosting) []types.JobPosting {
	merged := make([]types.JobPosting, 0, len(postings))
	byTriple := make(map[string]int, len(postings))
	byRef := make(map[string]int, len(postings))

	for _, p := range postings {
		triple := DedupKey(p)

		i, seen := byTriple[triple]
		if !seen && p.ProviderRef != "" {
			i, seen = byRef[p.ProviderRef]
		}

		if !seen {
			i = len(merged)
			merged = append(merged, p)
		} else {
			if p.PostedAt.After(merged[i].PostedAt) {
				merged[i].PostedAt = p.PostedAt
			}
			merged[i].Skills = unionSkills(merged[i].Skills, p.Skills)
		}

		if _, ok := byTriple[triple]; !ok {
			byTriple[triple] = i
		}
		if p.ProviderRef != "" {
			if _, ok := byRef[p.ProviderRef]; !ok {
				byRef[p.ProviderRef] = i
			}
		}
	}

	return merged
}

func unionSkills(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// sortByRecency orders postings most-recent-first where timestamps are
// set; undated postings keep their relative order (stable sort).
func sortByRecency(postings []types.JobPosting) {
	sort.SliceStable(postings, func(i, j int) bool {
		a, b := postings[i].PostedAt, postings[j].PostedAt
		if a.IsZero() || b.IsZero() {
			return false
		}
		return a.After(b)
	})
}
