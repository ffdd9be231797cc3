package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/content"
	"github.com/jonathan/interview-coach/internal/delivery"
	"github.com/jonathan/interview-coach/internal/synthesis"
	"github.com/jonathan/interview-coach/internal/types"
)

type fakeContentAnalyzer struct {
	report *types.ContentReport
	err    error
	delay  time.Duration
	calls  atomic.Int64

	// doneErr, when set, is returned instead of ctx.Err() once the context
	// expires, mimicking transports that surface deadlines as their own
	// status errors.
	doneErr error
}

func (f *fakeContentAnalyzer) Analyze(ctx context.Context, answer *types.Answer) (*types.ContentReport, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			if f.doneErr != nil {
				return nil, f.doneErr
			}
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeDeliveryAnalyzer struct {
	report *types.DeliveryReport
	err    error
	delay  time.Duration
	calls  atomic.Int64

	// ctxErrAtFinish records whether this branch saw a cancelled context
	// when it completed.
	ctxErrAtFinish atomic.Value
}

func (f *fakeDeliveryAnalyzer) Analyze(ctx context.Context, answer *types.Answer) (*types.DeliveryReport, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			f.ctxErrAtFinish.Store(ctx.Err())
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		f.ctxErrAtFinish.Store(err)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func goodContentReport() *types.ContentReport {
	return &types.ContentReport{
		AnswerID: "ans-1",
		CompetencyScores: []types.CompetencyScore{
			{Competency: types.CompetencyProblemSolving, Score: 80},
		},
		STARCompliance: 70,
		Strengths:      []string{"quantified outcome"},
		Gaps:           []string{"situation too brief"},
		OverallScore:   80,
	}
}

func goodDeliveryReport() *types.DeliveryReport {
	return &types.DeliveryReport{
		AnswerID:        "ans-1",
		PaceWPM:         145,
		ClarityScore:    70,
		ConfidenceScore: 65,
		FillerWordRate:  2.5,
		Tone:            types.ToneNeutral,
		OverallScore:    50,
	}
}

func validAnswer() *types.Answer {
	return &types.Answer{
		ID:         "ans-1",
		Question:   "Tell me about a time you solved a hard problem.",
		Transcript: "At my last job the billing pipeline kept double charging customers so I traced it to a retry bug and fixed it.",
		Audio: &types.AudioFeatures{
			Ref: "recordings/ans-1.wav",
			WordTimings: []types.WordTiming{
				{Word: "at", StartMS: 0, EndMS: 300},
				{Word: "my", StartMS: 350, EndMS: 600},
			},
		},
		Industry:          types.IndustryTechnology,
		CompetencyTargets: []types.CompetencyTag{types.CompetencyProblemSolving},
		DurationMS:        22_000,
	}
}

func newTestCoordinator(t *testing.T, c ContentAnalyzer, d DeliveryAnalyzer, cfg Config) *Coordinator {
	t.Helper()
	synth, err := synthesis.New(synthesis.DefaultWeights, nil, zap.NewNop())
	require.NoError(t, err)
	return New(c, d, synth, cfg, zap.NewNop())
}

func TestEvaluate_BothBranchesSucceed(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: goodContentReport()},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{},
	)

	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err)

	assert.False(t, evaluation.Partial())
	require.NotNil(t, evaluation.Feedback)
	assert.InDelta(t, 68.0, evaluation.Feedback.CombinedScore, 1e-9)
	assert.Equal(t, "ans-1", evaluation.AnswerID)
	assert.NotNil(t, evaluation.Content)
	assert.NotNil(t, evaluation.Delivery)
}

func TestEvaluate_InvalidAnswerNeverReachesAnalyzers(t *testing.T) {
	contentFake := &fakeContentAnalyzer{report: goodContentReport()}
	deliveryFake := &fakeDeliveryAnalyzer{report: goodDeliveryReport()}
	coord := newTestCoordinator(t, contentFake, deliveryFake, Config{})

	answer := validAnswer()
	answer.Industry = "aerospace"

	_, err := coord.Evaluate(context.Background(), answer)
	require.Error(t, err)

	var ve *types.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Zero(t, contentFake.calls.Load())
	assert.Zero(t, deliveryFake.calls.Load())
}

func TestEvaluate_ContentFailureYieldsPartial(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{err: &content.AnalysisError{Reason: content.ReasonModelFailure, Message: "model unavailable"}},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{},
	)

	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err, "single branch failure is a partial result, not an error")

	assert.True(t, evaluation.Partial())
	assert.Nil(t, evaluation.Feedback)
	assert.Nil(t, evaluation.Content)
	require.NotNil(t, evaluation.Delivery)
	assert.Equal(t, BranchContent, evaluation.Failure.Branch)
	assert.Equal(t, FailureAnalyzerError, evaluation.Failure.Code)
}

func TestEvaluate_DeliveryUnsupportedInput(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: goodContentReport()},
		&fakeDeliveryAnalyzer{err: &delivery.UnsupportedInputError{AnswerID: "ans-1"}},
		Config{},
	)

	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err)

	assert.True(t, evaluation.Partial())
	require.NotNil(t, evaluation.Content)
	assert.Equal(t, BranchDelivery, evaluation.Failure.Branch)
	assert.Equal(t, FailureUnsupportedInput, evaluation.Failure.Code)
}

func TestEvaluate_MalformedOutputClassifiedAsInvalid(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{err: &content.AnalysisError{Reason: content.ReasonContractBreach, Message: "competency set mismatch"}},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{},
	)

	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err)
	assert.Equal(t, FailureInvalidOutput, evaluation.Failure.Code)
}

func TestEvaluate_ReportForWrongAnswerRejected(t *testing.T) {
	stray := goodContentReport()
	stray.AnswerID = "ans-9"

	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: stray},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{},
	)

	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err)

	assert.True(t, evaluation.Partial())
	assert.Equal(t, BranchContent, evaluation.Failure.Branch)
	assert.Equal(t, FailureInvalidOutput, evaluation.Failure.Code)
}

func TestEvaluate_SlowBranchTimesOutWithoutCancellingSibling(t *testing.T) {
	deliveryFake := &fakeDeliveryAnalyzer{report: goodDeliveryReport(), delay: 80 * time.Millisecond}
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: goodContentReport(), delay: time.Second},
		deliveryFake,
		Config{ContentTimeout: 30 * time.Millisecond, DeliveryTimeout: time.Second},
	)

	start := time.Now()
	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err)

	assert.True(t, evaluation.Partial())
	assert.Equal(t, BranchContent, evaluation.Failure.Branch)
	assert.Equal(t, FailureTimeout, evaluation.Failure.Code)
	require.NotNil(t, evaluation.Delivery, "the healthy branch's report survives")

	finishErr, ok := deliveryFake.ctxErrAtFinish.Load().(error)
	if ok {
		assert.NoError(t, finishErr, "content timeout must not cancel the delivery branch")
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond,
		"the join waits for both branches but is bounded by their timeouts")
}

func TestEvaluate_TransportDeadlineErrorClassifiedAsTimeout(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{
			report:  goodContentReport(),
			delay:   time.Second,
			doneErr: errors.New("rpc error: code = DeadlineExceeded desc = request deadline passed"),
		},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{ContentTimeout: 30 * time.Millisecond, DeliveryTimeout: time.Second},
	)

	evaluation, err := coord.Evaluate(context.Background(), validAnswer())
	require.NoError(t, err)

	assert.True(t, evaluation.Partial())
	assert.Equal(t, BranchContent, evaluation.Failure.Branch)
	assert.Equal(t, FailureTimeout, evaluation.Failure.Code,
		"an expired branch deadline is a timeout even when the analyzer error does not wrap context.DeadlineExceeded")
	require.NotNil(t, evaluation.Delivery)
}

func TestEvaluate_BothBranchesFail(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{err: errors.New("content backend down")},
		&fakeDeliveryAnalyzer{err: &delivery.AnalysisError{Reason: delivery.ReasonMalformedOutput, Message: "bad tone label"}},
		Config{},
	)

	_, err := coord.Evaluate(context.Background(), validAnswer())
	require.Error(t, err)

	var tf *TotalFailure
	require.ErrorAs(t, err, &tf)
	assert.Equal(t, "ans-1", tf.AnswerID)
	assert.Equal(t, FailureAnalyzerError, tf.Content.Code)
	assert.Equal(t, FailureInvalidOutput, tf.Delivery.Code)
	assert.Contains(t, tf.Error(), "both branches")
}

func TestEvaluate_CallerCancellationStopsBothBranches(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: goodContentReport(), delay: time.Second},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport(), delay: time.Second},
		Config{ContentTimeout: 5 * time.Second, DeliveryTimeout: 5 * time.Second},
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := coord.Evaluate(ctx, validAnswer())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestEvaluateAll_PreservesOrderAndIsolatesFailures(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: goodContentReport()},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{},
	)

	good := validAnswer()
	bad := validAnswer()
	bad.ID = "ans-2"
	bad.Transcript = "   "

	results, err := coord.EvaluateAll(context.Background(), []*types.Answer{good, bad, good}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "ans-1", results[0].AnswerID)
	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Evaluation)

	assert.Equal(t, "ans-2", results[1].AnswerID)
	assert.Error(t, results[1].Err, "one bad answer does not abort the batch")

	assert.NoError(t, results[2].Err)
}

func TestEvaluateAll_CancelledContext(t *testing.T) {
	coord := newTestCoordinator(t,
		&fakeContentAnalyzer{report: goodContentReport()},
		&fakeDeliveryAnalyzer{report: goodDeliveryReport()},
		Config{},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := coord.EvaluateAll(ctx, []*types.Answer{validAnswer()}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
