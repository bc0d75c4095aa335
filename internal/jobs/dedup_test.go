package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-insight/internal/types"
)

func TestDedupKeyNormalizedTriple(t *testing.T) {
	a := types.JobPosting{Title: "  Data   Engineer ", Company: "ACME Corp", Location: "New York"}
	b := types.JobPosting{Title: "data engineer", Company: "acme corp", Location: "new  york"}

	assert.Equal(t, DedupKey(a), DedupKey(b), "case, trim and whitespace runs must not split identities")
}

func TestDedupKeyIgnoresProviderFields(t *testing.T) {
	a := types.JobPosting{Provider: "adzuna", ProviderRef: "a1", Title: "Engineer", Company: "Acme", Location: "NYC"}
	b := types.JobPosting{Provider: "jooble", ProviderRef: "j9", Title: "Engineer", Company: "Acme", Location: "NYC"}

	assert.Equal(t, DedupKey(a), DedupKey(b))
}

func TestDedupKeyDistinctLocations(t *testing.T) {
	a := types.JobPosting{Title: "Engineer", Company: "Acme", Location: "Boston"}
	b := types.JobPosting{Title: "Engineer", Company: "Acme", Location: "Denver"}

	assert.NotEqual(t, DedupKey(a), DedupKey(b))
}

func TestMergeKeepsMostRecentAndUnionsSkills(t *testing.T) {
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	merged := Merge([]types.JobPosting{
		{Title: "Engineer", Company: "Acme", Location: "NYC", PostedAt: older, Skills: []string{"go", "sql"}},
		{Title: "engineer", Company: "ACME", Location: "nyc", PostedAt: newer, Skills: []string{"sql", "docker"}},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, newer, merged[0].PostedAt)
	assert.ElementsMatch(t, []string{"go", "sql", "docker"}, merged[0].Skills)
}

func TestMergeCollapsesAcrossProviders(t *testing.T) {
	// The same listing surfaced by two providers under different native
	// ids is one posting.
	merged := Merge([]types.JobPosting{
		{Provider: "adzuna", ProviderRef: "a1", Title: "Engineer", Company: "Acme", Location: "NYC"},
		{Provider: "jooble", ProviderRef: "j9", Title: "Engineer", Company: "Acme", Location: "NYC"},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "adzuna", merged[0].Provider, "first-seen posting wins")
}

func TestMergeCollapsesOnNativeID(t *testing.T) {
	// Same upstream listing id with retitled copy still merges.
	merged := Merge([]types.JobPosting{
		{Provider: "adzuna", ProviderRef: "42", Title: "Engineer", Company: "Acme", Location: "NYC", Skills: []string{"go"}},
		{Provider: "jsearch", ProviderRef: "42", Title: "Software Engineer", Company: "Acme", Location: "NYC", Skills: []string{"sql"}},
	})

	require.Len(t, merged, 1)
	assert.ElementsMatch(t, []string{"go", "sql"}, merged[0].Skills)
}

func TestMergeKeepsDistinctListings(t *testing.T) {
	merged := Merge([]types.JobPosting{
		{Provider: "adzuna", ProviderRef: "a1", Title: "Engineer", Company: "Acme", Location: "Boston"},
		{Provider: "adzuna", ProviderRef: "a2", Title: "Engineer", Company: "Acme", Location: "Denver"},
	})

	assert.Len(t, merged, 2)
}

func TestMergePreservesFirstSeenOrder(t *testing.T) {
	merged := Merge([]types.JobPosting{
		{Title: "First", Company: "A", Location: "X"},
		{Title: "Second", Company: "B", Location: "Y"},
		{Title: "first", Company: "a", Location: "x"},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "First", merged[0].Title)
	assert.Equal(t, "Second", merged[1].Title)
}

func TestSortByRecency(t *testing.T) {
	t1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	postings := []types.JobPosting{
		{Title: "Old", PostedAt: t1},
		{Title: "Undated A"},
		{Title: "New", PostedAt: t2},
		{Title: "Undated B"},
	}
	sortByRecency(postings)

	assert.Equal(t, "New", postings[0].Title)
	// Undated postings keep their relative order.
	var undated []string
	for _, p := range postings {
		if p.PostedAt.IsZero() {
			undated = append(undated, p.Title)
		}
	}
	assert.Equal(t, []string{"Undated A", "Undated B"}, undated)
}
