package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-insight/internal/types"
)

// postingsWithSkillCounts builds a posting set where each skill appears
// in exactly the given number of posting descriptions, introduced in
// map-independent declaration order.
func postingsWithSkillCounts(skills []string, counts []int) []types.JobPosting {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}

	postings := make([]types.JobPosting, max)
	for i := range postings {
		var attached []string
		for j, skill := range skills {
			if counts[j] > i {
				attached = append(attached, skill)
			}
		}
		postings[i] = types.JobPosting{Title: "Role", Company: "Acme", Skills: attached}
	}
	return postings
}

func TestAnalyzeWorkedExample(t *testing.T) {
	// Resume {python, sql} against demand {python:10, sql:8, docker:6,
	// kubernetes:4, aws:2} over 10 postings.
	postings := postingsWithSkillCounts(
		[]string{"python", "sql", "docker", "kubernetes", "aws"},
		[]int{10, 8, 6, 4, 2},
	)

	report := Analyze([]string{"python", "sql"}, postings, "data engineer")

	assert.Equal(t, 40, report.Readiness)
	assert.Equal(t, 10, report.JobsAnalyzed)
	assert.ElementsMatch(t, []string{"python", "sql"}, report.Matched)

	require.Len(t, report.Missing, 3)
	assert.Equal(t, "docker", report.Missing[0].Skill)
	assert.Equal(t, 6, report.Missing[0].Frequency)

	assert.Equal(t, types.TierImmediate, report.Roadmap.TierFor("docker"))
	assert.Equal(t, types.TierOneMonth, report.Roadmap.TierFor("kubernetes"))
	assert.Equal(t, types.TierThreeMonth, report.Roadmap.TierFor("aws"))
	assert.Empty(t, report.Roadmap.SixMonth)
}

func TestAnalyzeEmptyPostingsIsFullyReady(t *testing.T) {
	report := Analyze([]string{"python"}, nil, "engineer")

	assert.Equal(t, 100, report.Readiness, "no requirements means nothing is missing")
	assert.Empty(t, report.Missing)
	assert.Zero(t, report.JobsAnalyzed)
}

func TestAnalyzeNoResumeSkills(t *testing.T) {
	postings := postingsWithSkillCounts([]string{"python", "sql"}, []int{2, 1})

	report := Analyze(nil, postings, "engineer")
	assert.Equal(t, 0, report.Readiness)
	assert.Len(t, report.Missing, 2)
}

func TestAnalyzeCaseAndAliasInsensitiveMatching(t *testing.T) {
	postings := []types.JobPosting{
		{Skills: []string{"kubernetes", "go"}},
	}

	report := Analyze([]string{"K8s", "Golang"}, postings, "engineer")
	assert.Equal(t, 100, report.Readiness)
	assert.Empty(t, report.Missing)
}

func TestAnalyzeFrequencyTieBreakIsFirstSeen(t *testing.T) {
	// terraform and ansible both appear twice; terraform is seen first.
	postings := []types.JobPosting{
		{Skills: []string{"terraform", "ansible"}},
		{Skills: []string{"terraform", "ansible"}},
	}

	report := Analyze(nil, postings, "engineer")
	require.Len(t, report.Missing, 2)
	assert.Equal(t, "terraform", report.Missing[0].Skill)
	assert.Equal(t, "ansible", report.Missing[1].Skill)
}

func TestAnalyzeDeterministic(t *testing.T) {
	postings := postingsWithSkillCounts(
		[]string{"python", "sql", "docker", "aws", "gcp", "kafka"},
		[]int{5, 5, 4, 3, 3, 1},
	)

	first := Analyze([]string{"python"}, postings, "engineer")
	second := Analyze([]string{"python"}, postings, "engineer")
	assert.Equal(t, first, second)
}

func TestAnalyzeRoadmapQuartiles(t *testing.T) {
	// Eight missing skills slice into four tiers of two.
	postings := postingsWithSkillCounts(
		[]string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"},
		[]int{8, 7, 6, 5, 4, 3, 2, 1},
	)
	// None of these are vocabulary entries, so attach them directly.
	report := Analyze(nil, postings, "engineer")

	require.Len(t, report.Missing, 8)
	assert.Len(t, report.Roadmap.Immediate, 2)
	assert.Len(t, report.Roadmap.OneMonth, 2)
	assert.Len(t, report.Roadmap.ThreeMonth, 2)
	assert.Len(t, report.Roadmap.SixMonth, 2)
	assert.Equal(t, []string{"a1", "a2"}, report.Roadmap.Immediate)
}

func TestAnalyzeReadinessRounding(t *testing.T) {
	// 1 of 3 matched rounds to 33; 2 of 3 rounds to 67.
	postings := postingsWithSkillCounts([]string{"python", "sql", "docker"}, []int{3, 2, 1})

	oneOfThree := Analyze([]string{"python"}, postings, "engineer")
	assert.Equal(t, 33, oneOfThree.Readiness)

	twoOfThree := Analyze([]string{"python", "sql"}, postings, "engineer")
	assert.Equal(t, 67, twoOfThree.Readiness)
}
