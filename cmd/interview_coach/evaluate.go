package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/content"
	"github.com/jonathan/interview-coach/internal/coordinator"
	"github.com/jonathan/interview-coach/internal/delivery"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/synthesis"
	"github.com/jonathan/interview-coach/internal/transcript"
	"github.com/jonathan/interview-coach/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one spoken interview answer",
	Long: `Runs the content and delivery analyses for a recorded answer in parallel and merges both reports into a single scored feedback report.

The answer file is a JSON document carrying the industry, competency targets, and either a transcript with word timings or just a reference to the recording; bare recordings are transcribed first. If one analysis branch fails the surviving report is returned as partial feedback.`,
	RunE: runEvaluate,
}

var (
	evalConfigPath        string
	evalAnswerFile        string
	evalAudioDir          string
	evalSessionID         string
	evalDatabaseURL       string
	evalAPIKey            string
	evalContentWeight     float64
	evalDeliveryWeight    float64
	evalContentTimeoutMS  int64
	evalDeliveryTimeoutMS int64
	evalOutFile           string
	evalVerbose           bool
)

func init() {
	evaluateCmd.Flags().StringVar(&evalConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	evaluateCmd.Flags().StringVarP(&evalAnswerFile, "answer", "a", "", "Path to the answer JSON file (required)")
	evaluateCmd.Flags().StringVar(&evalAudioDir, "audio-dir", "", "Directory audio refs are resolved against (defaults to the answer file's directory)")
	evaluateCmd.Flags().StringVar(&evalSessionID, "session-id", "", "Practice session to record the feedback under (requires a database)")
	evaluateCmd.Flags().StringVar(&evalDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	evaluateCmd.Flags().StringVar(&evalAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	evaluateCmd.Flags().Float64Var(&evalContentWeight, "content-weight", 0, "Weight of content in the combined score")
	evaluateCmd.Flags().Float64Var(&evalDeliveryWeight, "delivery-weight", 0, "Weight of delivery in the combined score")
	evaluateCmd.Flags().Int64Var(&evalContentTimeoutMS, "content-timeout-ms", 0, "Content branch timeout in milliseconds")
	evaluateCmd.Flags().Int64Var(&evalDeliveryTimeoutMS, "delivery-timeout-ms", 0, "Delivery branch timeout in milliseconds")
	evaluateCmd.Flags().StringVarP(&evalOutFile, "out", "o", "", "Path to write the feedback JSON to (defaults to stdout)")
	evaluateCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = evaluateCmd.MarkFlagRequired("answer")

	rootCmd.AddCommand(evaluateCmd)
}

// failureOutput is the JSON rendering of one failed analysis branch.
type failureOutput struct {
	Branch string `json:"branch"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// evaluationOutput is the JSON document written for one evaluated answer.
type evaluationOutput struct {
	AnswerID string                     `json:"answer_id"`
	Partial  bool                       `json:"partial"`
	Feedback *types.SynthesizedFeedback `json:"feedback,omitempty"`
	Content  *types.ContentReport       `json:"content_report,omitempty"`
	Delivery *types.DeliveryReport      `json:"delivery_report,omitempty"`
	Failure  *failureOutput             `json:"failure,omitempty"`
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadEvaluateConfig(cmd)
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

	answer, err := loadAnswer(evalAnswerFile)
	if err != nil {
		return err
	}

	audioDir := evalAudioDir
	if audioDir == "" {
		audioDir = filepath.Dir(evalAnswerFile)
	}
	loader := delivery.NewFileLoader(audioDir)

	// Answers submitted as a bare recording get transcribed before the
	// dual analysis launches.
	if transcript.NeedsExtraction(answer) {
		filler := transcript.NewFiller(transcript.NewGeminiExtractor(client), loader)
		if err := filler.Fill(ctx, answer); err != nil {
			return fmt.Errorf("failed to transcribe answer: %w", err)
		}
	}

	coord, err := buildCoordinator(client, loader, cfg, logger)
	if err != nil {
		return err
	}

	result, err := coord.Evaluate(ctx, answer)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintEvaluation(result)
	}

	if evalSessionID != "" {
		if err := persistResult(ctx, cfg, result); err != nil {
			return err
		}
	}

	return writeEvaluation(result, evalOutFile, cfg.Verbose)
}

// loadEvaluateConfig merges the config file, CLI overrides and defaults.
func loadEvaluateConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if evalConfigPath != "" {
		loaded, err := config.Load(evalConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = evalAPIKey
	}
	if cmd.Flags().Changed("content-weight") {
		cfg.ContentWeight = evalContentWeight
	}
	if cmd.Flags().Changed("delivery-weight") {
		cfg.DeliveryWeight = evalDeliveryWeight
	}
	if cmd.Flags().Changed("content-timeout-ms") {
		cfg.ContentTimeoutMS = evalContentTimeoutMS
	}
	if cmd.Flags().Changed("delivery-timeout-ms") {
		cfg.DeliveryTimeoutMS = evalDeliveryTimeoutMS
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = evalDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = evalVerbose
	}

	merged := cfg.MergeWithDefaults(config.Config{})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// loadAnswer reads and decodes one answer JSON file.
func loadAnswer(path string) (*types.Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer file: %w", err)
	}

	var answer types.Answer
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, fmt.Errorf("failed to decode answer file %s: %w", path, err)
	}
	return &answer, nil
}

// buildCoordinator wires both analyzers and the synthesizer from config.
func buildCoordinator(client llm.Client, loader delivery.AudioLoader, cfg *config.Config, logger *zap.Logger) (*coordinator.Coordinator, error) {
	weights := synthesis.Weights{Content: cfg.ContentWeight, Delivery: cfg.DeliveryWeight}
	synthesizer, err := synthesis.New(weights, cfg.CrossInsightRules, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	contentAnalyzer := content.NewAnalyzer(client)
	deliveryAnalyzer := delivery.NewAnalyzer(client, loader)

	return coordinator.New(contentAnalyzer, deliveryAnalyzer, synthesizer, coordinator.Config{
		ContentTimeout:  time.Duration(cfg.ContentTimeoutMS) * time.Millisecond,
		DeliveryTimeout: time.Duration(cfg.DeliveryTimeoutMS) * time.Millisecond,
	}, logger), nil
}

// persistResult records the feedback under a practice session.
func persistResult(ctx context.Context, cfg *config.Config, result *coordinator.Evaluation) error {
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("--session-id requires a database: set DATABASE_URL or --db-url")
	}

	sessionID, err := uuid.Parse(evalSessionID)
	if err != nil {
		return fmt.Errorf("invalid session-id format: %w", err)
	}

	store, err := session.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	if result.Partial() {
		var surviving any
		if result.Content != nil {
			surviving = result.Content
		} else {
			surviving = result.Delivery
		}
		return store.SavePartial(ctx, sessionID, result.AnswerID, string(result.Failure.Code), surviving)
	}
	return store.SaveFeedback(ctx, sessionID, result.Feedback)
}

// writeEvaluation renders the result as JSON to a file or stdout.
func writeEvaluation(result *coordinator.Evaluation, outFile string, verbose bool) error {
	output := evaluationOutput{
		AnswerID: result.AnswerID,
		Partial:  result.Partial(),
		Feedback: result.Feedback,
		Content:  result.Content,
		Delivery: result.Delivery,
	}
	if result.Failure != nil {
		output.Failure = &failureOutput{Branch: result.Failure.Branch, Code: string(result.Failure.Code)}
		if result.Failure.Err != nil {
			output.Failure.Detail = result.Failure.Err.Error()
		}
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Feedback written to: %s\n", outFile)
		return nil
	}

	if !verbose {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonBytes))
	}
	return nil
}
