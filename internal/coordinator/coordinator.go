// Package coordinator runs the content and delivery analyses of one answer
// concurrently, isolates branch failures, and joins the surviving reports
// into synthesized feedback.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/content"
	"github.com/jonathan/interview-coach/internal/delivery"
	"github.com/jonathan/interview-coach/internal/synthesis"
	"github.com/jonathan/interview-coach/internal/types"
)

// ContentAnalyzer is the contract the content branch runs against.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, answer *types.Answer) (*types.ContentReport, error)
}

// DeliveryAnalyzer is the contract the delivery branch runs against.
type DeliveryAnalyzer interface {
	Analyze(ctx context.Context, answer *types.Answer) (*types.DeliveryReport, error)
}

// Config holds the per-branch timeouts for one evaluation.
type Config struct {
	ContentTimeout  time.Duration
	DeliveryTimeout time.Duration
}

// DefaultConfig returns the standard branch timeouts.
func DefaultConfig() Config {
	return Config{
		ContentTimeout:  5 * time.Second,
		DeliveryTimeout: 5 * time.Second,
	}
}

// Coordinator fans one answer out to both analyzers and joins the results.
// Analyzers own their model clients; the Coordinator holds no shared state
// between branches.
type Coordinator struct {
	content     ContentAnalyzer
	delivery    DeliveryAnalyzer
	synthesizer *synthesis.Synthesizer
	cfg         Config
	logger      *zap.Logger
}

// New creates a Coordinator.
func New(contentAnalyzer ContentAnalyzer, deliveryAnalyzer DeliveryAnalyzer, synthesizer *synthesis.Synthesizer, cfg Config, logger *zap.Logger) *Coordinator {
	if cfg.ContentTimeout <= 0 {
		cfg.ContentTimeout = DefaultConfig().ContentTimeout
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = DefaultConfig().DeliveryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		content:     contentAnalyzer,
		delivery:    deliveryAnalyzer,
		synthesizer: synthesizer,
		cfg:         cfg,
		logger:      logger,
	}
}

// Evaluate runs both analyses concurrently and returns either complete
// feedback or a partial Evaluation carrying the surviving report.
//
// Branch isolation: each branch gets its own deadline derived from the
// caller context, so a caller abort stops both branches but one branch's
// timeout or failure never cancels the other. The join always waits for
// both outcomes; it never races to return on first completion. A
// *TotalFailure error is returned only when both branches fail.
func (c *Coordinator) Evaluate(ctx context.Context, answer *types.Answer) (*Evaluation, error) {
	if err := answer.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	c.logger.Info("starting dual analysis",
		zap.String("answer_id", answer.ID),
		zap.String("industry", string(answer.Industry)),
		zap.Int("competency_targets", len(answer.CompetencyTargets)),
	)

	var (
		contentReport  *types.ContentReport
		contentErr     error
		contentCtxErr  error
		deliveryReport *types.DeliveryReport
		deliveryErr    error
		deliveryCtxErr error
		contentMu      sync.Mutex
		deliveryMu     sync.Mutex
	)

	// Zero-value group on purpose: errgroup.WithContext would cancel the
	// sibling branch on first failure, which breaks failure isolation.
	var g errgroup.Group

	g.Go(func() error {
		branchCtx, cancel := context.WithTimeout(ctx, c.cfg.ContentTimeout)
		defer cancel()

		report, err := c.content.Analyze(branchCtx, answer)
		contentMu.Lock()
		contentReport, contentErr, contentCtxErr = report, err, branchCtx.Err()
		contentMu.Unlock()
		return nil
	})

	g.Go(func() error {
		branchCtx, cancel := context.WithTimeout(ctx, c.cfg.DeliveryTimeout)
		defer cancel()

		report, err := c.delivery.Analyze(branchCtx, answer)
		deliveryMu.Lock()
		deliveryReport, deliveryErr, deliveryCtxErr = report, err, branchCtx.Err()
		deliveryMu.Unlock()
		return nil
	})

	// Branch funcs always return nil; failures are captured as typed
	// outcomes above.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contentFailure := classifyContentFailure(answer.ID, contentReport, contentErr, contentCtxErr)
	deliveryFailure := classifyDeliveryFailure(answer.ID, deliveryReport, deliveryErr, deliveryCtxErr)

	switch {
	case contentFailure != nil && deliveryFailure != nil:
		c.logger.Warn("both analysis branches failed",
			zap.String("answer_id", answer.ID),
			zap.String("content_reason", string(contentFailure.Code)),
			zap.String("delivery_reason", string(deliveryFailure.Code)),
		)
		return nil, &TotalFailure{AnswerID: answer.ID, Content: *contentFailure, Delivery: *deliveryFailure}

	case contentFailure != nil:
		c.logger.Warn("content branch failed, returning partial result",
			zap.String("answer_id", answer.ID),
			zap.String("reason", string(contentFailure.Code)),
			zap.Error(contentFailure.Err),
		)
		return &Evaluation{AnswerID: answer.ID, Delivery: deliveryReport, Failure: contentFailure}, nil

	case deliveryFailure != nil:
		c.logger.Warn("delivery branch failed, returning partial result",
			zap.String("answer_id", answer.ID),
			zap.String("reason", string(deliveryFailure.Code)),
			zap.Error(deliveryFailure.Err),
		)
		return &Evaluation{AnswerID: answer.ID, Content: contentReport, Failure: deliveryFailure}, nil
	}

	feedback, err := c.synthesizer.Synthesize(*contentReport, *deliveryReport)
	if err != nil {
		return nil, err
	}

	c.logger.Info("dual analysis complete",
		zap.String("answer_id", answer.ID),
		zap.Float64("combined_score", feedback.CombinedScore),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Evaluation{
		AnswerID: answer.ID,
		Feedback: feedback,
		Content:  contentReport,
		Delivery: deliveryReport,
	}, nil
}

// classifyContentFailure maps a content branch outcome onto a failure code.
// Results are keyed by answer ID: a report for a different answer is
// treated as invalid output, never passed through. ctxErr is the branch
// context state when the analyzer returned: some transports surface an
// expired deadline as their own status error rather than wrapping
// context.DeadlineExceeded, so the branch deadline is checked directly.
func classifyContentFailure(answerID string, report *types.ContentReport, err, ctxErr error) *BranchFailure {
	if err == nil && report != nil && report.AnswerID == answerID {
		return nil
	}

	failure := &BranchFailure{Branch: BranchContent, Code: FailureAnalyzerError, Err: err}
	switch {
	case err == nil:
		failure.Code = FailureInvalidOutput
		failure.Err = errors.New("content report missing or keyed to a different answer")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded):
		failure.Code = FailureTimeout
	default:
		var ae *content.AnalysisError
		if errors.As(err, &ae) && (ae.Reason == content.ReasonMalformedOutput || ae.Reason == content.ReasonContractBreach) {
			failure.Code = FailureInvalidOutput
		}
	}
	return failure
}

// classifyDeliveryFailure maps a delivery branch outcome onto a failure code.
func classifyDeliveryFailure(answerID string, report *types.DeliveryReport, err, ctxErr error) *BranchFailure {
	if err == nil && report != nil && report.AnswerID == answerID {
		return nil
	}

	failure := &BranchFailure{Branch: BranchDelivery, Code: FailureAnalyzerError, Err: err}
	switch {
	case err == nil:
		failure.Code = FailureInvalidOutput
		failure.Err = errors.New("delivery report missing or keyed to a different answer")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded):
		failure.Code = FailureTimeout
	default:
		var ue *delivery.UnsupportedInputError
		if errors.As(err, &ue) {
			failure.Code = FailureUnsupportedInput
			break
		}
		var ae *delivery.AnalysisError
		if errors.As(err, &ae) && ae.Reason == delivery.ReasonMalformedOutput {
			failure.Code = FailureInvalidOutput
		}
	}
	return failure
}
