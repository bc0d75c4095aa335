// Package export turns finished analyses into tabular artifacts and
// notification payloads.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-insight/internal/types"
)

// Exporter writes an analysis and its skill-gap report to an artifact
// and returns a reference to it.
type Exporter interface {
	Emit(result *types.AnalysisResult, report *types.SkillGapReport) (string, error)
}

// CSVExporter writes one CSV file per export under a base directory.
type CSVExporter struct {
	dir string
}

// NewCSVExporter creates an exporter writing into dir.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

// Emit writes a summary section followed by one row per missing skill.
// The returned reference is the file path.
func (e *CSVExporter) Emit(result *types.AnalysisResult, report *types.SkillGapReport) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("skill-gap-%s-%d.csv", sanitizeRole(report.Role), time.Now().Unix())
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"fingerprint", "role", "jobs_analyzed", "readiness_pct"},
		{result.Fingerprint, report.Role, strconv.Itoa(report.JobsAnalyzed), strconv.Itoa(report.Readiness)},
		{},
		{"missing_skill", "frequency", "roadmap_tier"},
	}
	for _, demand := range report.Missing {
		rows = append(rows, []string{
			demand.Skill,
			strconv.Itoa(demand.Frequency),
			string(report.Roadmap.TierFor(demand.Skill)),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write export rows: %w", err)
	}
	return path, nil
}

func sanitizeRole(role string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, role)
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return "report"
	}
	return cleaned
}
