package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-insight/internal/llm"
	"github.com/jonathan/resume-insight/internal/pipeline"
	"github.com/jonathan/resume-insight/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file>",
	Short: "Run the analysis pipeline on a resume",
	Long:  `Runs ingest, profile parsing, role matching and quality assessment on the given resume. Identical files are served from the fingerprint cache.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeFormat string
	analyzeStream bool
	analyzeOutput string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "Document format: pdf or docx (defaults to the file extension)")
	analyzeCmd.Flags().BoolVar(&analyzeStream, "stream", false, "Print model output fragments as they arrive")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the result JSON to a file instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	format := analyzeFormat
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if format != string(types.FormatPDF) && format != string(types.FormatDOCX) {
		return fmt.Errorf("unsupported format %q, expected pdf or docx", format)
	}

	analyzer, cleanup, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := pipeline.AnalyzeOptions{
		Document: types.ResumeDocument{
			FileName: filepath.Base(path),
			Format:   types.DocumentFormat(format),
			Content:  content,
		},
		ReplayFragments: analyzeStream,
	}
	if analyzeStream {
		opts.OnFragment = llm.FragmentFunc(func(text string) {
			fmt.Fprint(os.Stderr, text)
		})
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "\n[%s] %s\n", event.Stage, event.State)
		}
	}

	result, runErr := analyzer.Analyze(ctx, opts)
	if runErr != nil && result == nil {
		return runErr
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if analyzeOutput != "" {
		if err := os.WriteFile(analyzeOutput, append(encoded, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		fmt.Println(string(encoded))
	}

	// A cache write failure still produced a usable result; surface it
	// after printing.
	return runErr
}
