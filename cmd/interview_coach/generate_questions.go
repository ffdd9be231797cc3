package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/questions"
)

var generateQuestionsCmd = &cobra.Command{
	Use:   "generate-questions",
	Short: "Generate practice questions for a job posting",
	Long:  "Generate one behavioral practice question per target competency of a role profile. The profile comes either from a saved JSON file or from analyzing a job posting.",
	RunE:  runGenerateQuestions,
}

var (
	questionsJobFile    string
	questionsJobURL     string
	questionsProfile    string
	questionsUseBrowser bool
	questionsAPIKey     string
	questionsOutFile    string
	questionsVerbose    bool
)

func init() {
	generateQuestionsCmd.Flags().StringVarP(&questionsJobFile, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	generateQuestionsCmd.Flags().StringVar(&questionsJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	generateQuestionsCmd.Flags().StringVarP(&questionsProfile, "profile", "p", "", "Path to a saved role profile JSON (skips posting analysis)")
	generateQuestionsCmd.Flags().BoolVar(&questionsUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	generateQuestionsCmd.Flags().StringVar(&questionsAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateQuestionsCmd.Flags().StringVarP(&questionsOutFile, "out", "o", "", "Path to write the questions JSON to (defaults to stdout)")
	generateQuestionsCmd.Flags().BoolVarP(&questionsVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(generateQuestionsCmd)
}

func runGenerateQuestions(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if questionsProfile != "" && (questionsJobFile != "" || questionsJobURL != "") {
		return fmt.Errorf("--profile is mutually exclusive with --job and --job-url")
	}

	cfg := &config.Config{
		JobFile:    questionsJobFile,
		JobURL:     questionsJobURL,
		UseBrowser: questionsUseBrowser,
		APIKey:     questionsAPIKey,
		Verbose:    questionsVerbose,
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

	var job *jobs.JobInfo
	if questionsProfile != "" {
		job, err = loadProfile(questionsProfile)
	} else {
		job, err = analyzePosting(ctx, cfg, client, logger)
	}
	if err != nil {
		return err
	}

	set, err := questions.NewGenerator(client).GenerateSet(ctx, job)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		for i, q := range set {
			printer.PrintQuestion(i+1, q.Text, q.Competency, q.STARHint)
		}
	}

	jsonBytes, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	if questionsOutFile != "" {
		if err := os.WriteFile(questionsOutFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Questions written to: %s\n", questionsOutFile)
		return nil
	}

	if !cfg.Verbose {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	}
	return nil
}

// loadProfile reads a previously saved role profile JSON file.
func loadProfile(path string) (*jobs.JobInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	var info jobs.JobInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode profile file %s: %w", path, err)
	}
	return &info, nil
}
