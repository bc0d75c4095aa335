package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-insight/internal/config"
	"github.com/jonathan/resume-insight/internal/export"
	"github.com/jonathan/resume-insight/internal/logger"
	"github.com/jonathan/resume-insight/internal/pipeline"
	"github.com/jonathan/resume-insight/internal/skills"
	"github.com/jonathan/resume-insight/internal/types"
)

var skillGapCmd = &cobra.Command{
	Use:   "skill-gap",
	Short: "Compare resume skills against market demand for a role",
	Long: `Aggregates live job postings for the target role across all configured
providers, extracts the skills they require, and reports matched and missing
skills with a learning roadmap. Skills come from --skills or from analyzing
the resume given with --resume.`,
	RunE: runSkillGap,
}

var (
	gapRole      string
	gapSkills    []string
	gapResume    string
	gapCountry   string
	gapRecency   time.Duration
	gapMax       int
	gapExportDir string
	gapNotify    string
)

func init() {
	skillGapCmd.Flags().StringVarP(&gapRole, "role", "r", "", "Target role, e.g. \"data engineer\"")
	skillGapCmd.Flags().StringSliceVarP(&gapSkills, "skills", "s", nil, "Resume skills (comma-separated)")
	skillGapCmd.Flags().StringVar(&gapResume, "resume", "", "Resume file to analyze for skills (alternative to --skills)")
	skillGapCmd.Flags().StringVar(&gapCountry, "country", "us", "Two-letter country code")
	skillGapCmd.Flags().DurationVar(&gapRecency, "recency", 0, "Pin the posting recency window, e.g. 72h (default: widen progressively)")
	skillGapCmd.Flags().IntVar(&gapMax, "max", 0, "Maximum postings to analyze (default: MAX_JOBS_PER_QUERY)")
	skillGapCmd.Flags().StringVar(&gapExportDir, "export", "", "Write a CSV report into this directory")
	skillGapCmd.Flags().StringVar(&gapNotify, "notify", "", "Recipient to notify about the exported report")
	_ = skillGapCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(skillGapCmd)
}

func runSkillGap(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(gapSkills) == 0 && gapResume == "" {
		return fmt.Errorf("either --skills or --resume is required")
	}

	resumeSkills := gapSkills
	result := &types.AnalysisResult{}

	if gapResume != "" {
		result, err = analyzeForSkills(ctx, cfg, gapResume)
		if err != nil {
			return err
		}
		if result.Profile == nil {
			return fmt.Errorf("resume analysis produced no profile, cannot derive skills")
		}
		resumeSkills = append(resumeSkills, result.Profile.Skills...)
	}

	postings, err := newAggregator(cfg).Search(ctx, types.SearchQuery{
		Role:       gapRole,
		Country:    gapCountry,
		Recency:    gapRecency,
		MaxResults: gapMax,
	})
	if err != nil {
		return fmt.Errorf("job search failed: %w", err)
	}

	report := skills.Analyze(resumeSkills, postings, gapRole)

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(encoded))

	if gapExportDir != "" {
		exporter := export.NewCSVExporter(gapExportDir)
		artifact, err := exporter.Emit(result, report)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", artifact)

		if gapNotify != "" {
			notifier := export.NewLogNotifier(logger.With("notify"))
			if err := notifier.Deliver(ctx, artifact, gapNotify); err != nil {
				return fmt.Errorf("notification failed: %w", err)
			}
		}
	}

	return nil
}

// analyzeForSkills runs the full pipeline on the resume so the profile
// skills can feed the gap analysis.
func analyzeForSkills(ctx context.Context, cfg *config.Config, path string) (*types.AnalysisResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != string(types.FormatPDF) && format != string(types.FormatDOCX) {
		return nil, fmt.Errorf("unsupported format %q, expected pdf or docx", format)
	}

	analyzer, cleanup, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := analyzer.Analyze(ctx, pipeline.AnalyzeOptions{
		Document: types.ResumeDocument{
			FileName: filepath.Base(path),
			Format:   types.DocumentFormat(format),
			Content:  content,
		},
	})
	if err != nil && result == nil {
		return nil, err
	}
	return result, nil
}
