package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/llm"
)

// newLogger builds the CLI logger. Verbose mode gets human-readable
// development output, otherwise JSON at info level.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// resolveAPIKey returns the configured key, falling back to the
// GEMINI_API_KEY environment variable.
func resolveAPIKey(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}

// loadPosting reads a job posting from a file or URL, whichever is set.
func loadPosting(ctx context.Context, cfg *config.Config, logger *zap.Logger) (string, error) {
	if cfg.JobFile == "" && cfg.JobURL == "" {
		return "", fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if cfg.JobFile != "" && cfg.JobURL != "" {
		return "", fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	opts := ingestion.DefaultOptions()
	opts.UseBrowser = cfg.UseBrowser
	ingestor := ingestion.NewIngestor(opts, logger)

	if cfg.JobFile != "" {
		return ingestor.FromFile(cfg.JobFile)
	}
	return ingestor.FromURL(ctx, cfg.JobURL)
}

// analyzePosting ingests a posting and parses it into a role profile.
func analyzePosting(ctx context.Context, cfg *config.Config, client llm.Client, logger *zap.Logger) (*jobs.JobInfo, error) {
	posting, err := loadPosting(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest job posting: %w", err)
	}

	info, err := jobs.NewAnalyzer(client, logger).Analyze(ctx, posting)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze job posting: %w", err)
	}
	return info, nil
}
