package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/delivery"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/questions"
	"github.com/jonathan/interview-coach/internal/server"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/transcript"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for answer evaluation, job analysis, question generation and practice session tracking.

Score weights, branch timeouts and cross-insight rules come from the --config file; flags override it.`,
	RunE: runServe,
}

var (
	serveConfigPath string
	serveAddr       string
	serveAudioDir   string
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", config.DefaultListenAddr, "Address to listen on")
	serveCmd.Flags().StringVar(&serveAudioDir, "audio-dir", "", "Directory audio refs are resolved against")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
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

	loader := delivery.NewFileLoader(serveAudioDir)
	coord, err := buildCoordinator(client, loader, cfg, logger)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Evaluator:   coord,
		Transcriber: transcript.NewFiller(transcript.NewGeminiExtractor(client), loader),
		Jobs:        jobs.NewAnalyzer(client, logger),
		Questions:   questions.NewGenerator(client),
		Logger:      logger,
	}

	// Session tracking is optional; without a database the session
	// endpoints report 501.
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL != "" {
		store, err := session.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		deps.Store = store
	}

	// Auth is optional; without JWT_SECRET the API runs open.
	if os.Getenv("JWT_SECRET") != "" {
		auth, err := config.NewAuthConfig()
		if err != nil {
			return fmt.Errorf("failed to load auth config: %w", err)
		}
		deps.Auth = auth
	}

	srv, err := server.New(cfg.ListenAddr, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadServeConfig merges the config file, CLI overrides and defaults.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.Load(serveConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}

	merged := cfg.MergeWithDefaults(config.Config{})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
