package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
)

var analyzeJobCmd = &cobra.Command{
	Use:   "analyze-job",
	Short: "Parse a job posting into a role profile",
	Long:  "Ingest a job posting from a text file or URL and parse it into a structured role profile: industry, target competencies, technologies and experience level.",
	RunE:  runAnalyzeJob,
}

var (
	analyzeJobFile    string
	analyzeJobURL     string
	analyzeUseBrowser bool
	analyzeAPIKey     string
	analyzeOutFile    string
	analyzeVerbose    bool
)

func init() {
	analyzeJobCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	analyzeJobCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	analyzeJobCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	analyzeJobCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeJobCmd.Flags().StringVarP(&analyzeOutFile, "out", "o", "", "Path to write the role profile JSON to (defaults to stdout)")
	analyzeJobCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(analyzeJobCmd)
}

func runAnalyzeJob(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := &config.Config{
		JobFile:    analyzeJobFile,
		JobURL:     analyzeJobURL,
		UseBrowser: analyzeUseBrowser,
		APIKey:     analyzeAPIKey,
		Verbose:    analyzeVerbose,
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	info, err := analyzePosting(ctx, cfg, client, logger)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintJobInfo(info)
	}

	jsonBytes, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal role profile: %w", err)
	}

	if analyzeOutFile != "" {
		if err := os.WriteFile(analyzeOutFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Role profile written to: %s\n", analyzeOutFile)
		return nil
	}

	if !cfg.Verbose {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	}
	return nil
}
