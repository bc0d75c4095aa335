// Package main provides the entry point for the resume insight CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_insight",
	Short: "Resume analysis and skill-gap service",
	Long:  "Resume Insight analyzes resumes with an LLM pipeline, caches results by content fingerprint, and compares resume skills against live job-market demand.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
