package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-insight/internal/types"
)

func TestExtractFindsVocabularySkills(t *testing.T) {
	text := "We need strong Python and SQL. Experience with Docker and Kubernetes is a plus."

	found := Extract(text)
	assert.Contains(t, found, "python")
	assert.Contains(t, found, "sql")
	assert.Contains(t, found, "docker")
	assert.Contains(t, found, "kubernetes")
}

func TestExtractIsCaseInsensitive(t *testing.T) {
	assert.Contains(t, Extract("PYTHON and PostgreSQL"), "python")
	assert.Contains(t, Extract("PYTHON and PostgreSQL"), "postgresql")
}

func TestExtractRespectsWordBoundaries(t *testing.T) {
	found := Extract("We categorize goods and arrange transport.")
	assert.NotContains(t, found, "go")
	assert.NotContains(t, found, "r")
}

func TestExtractSymbolNames(t *testing.T) {
	found := Extract("Modern C++ services, some C# tooling, legacy .NET apps and node.js APIs")
	assert.Contains(t, found, "c++")
	assert.Contains(t, found, "c#")
	assert.Contains(t, found, ".net")
	assert.Contains(t, found, "node.js")
}

func TestExtractEmptyText(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("   "))
}

func TestExtractFromPostingMergesAttachedSkills(t *testing.T) {
	posting := types.JobPosting{
		Description: "Looking for Terraform experience",
		Skills:      []string{"K8s", "terraform"},
	}

	found := ExtractFromPosting(posting)
	assert.Contains(t, found, "kubernetes", "attached skills go through alias normalization")
	// Terraform appears both attached and in the description, once in
	// the result.
	count := 0
	for _, s := range found {
		if s == "terraform" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
