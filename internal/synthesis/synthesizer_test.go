package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/types"
)

func contentReport(overall, star float64) types.ContentReport {
	return types.ContentReport{
		AnswerID: "ans-1",
		CompetencyScores: []types.CompetencyScore{
			{Competency: types.CompetencyProblemSolving, Score: overall},
		},
		STARCompliance: star,
		Strengths:      []string{"clear chronology"},
		Gaps:           []string{"no measurable result"},
		OverallScore:   overall,
	}
}

func deliveryReport(overall float64) types.DeliveryReport {
	return types.DeliveryReport{
		AnswerID:        "ans-1",
		PaceWPM:         150,
		ClarityScore:    75,
		ConfidenceScore: 70,
		FillerWordRate:  2,
		Tone:            types.ToneNeutral,
		OverallScore:    overall,
	}
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, Weights{Content: 0.6, Delivery: 0.4}.Validate())
	assert.NoError(t, Weights{Content: 1, Delivery: 0}.Validate())
	assert.Error(t, Weights{Content: 0.6, Delivery: 0.5}.Validate())
	assert.Error(t, Weights{Content: -0.2, Delivery: 1.2}.Validate())
}

func TestSynthesize_WeightedScore(t *testing.T) {
	// The canonical scenario: 0.6/0.4 over 80/50 must give exactly 68.
	synth, err := New(Weights{Content: 0.6, Delivery: 0.4}, nil, zap.NewNop())
	require.NoError(t, err)

	feedback, err := synth.Synthesize(contentReport(80, 70), deliveryReport(50))
	require.NoError(t, err)

	assert.InDelta(t, 68.0, feedback.CombinedScore, 1e-9)
	assert.Equal(t, "ans-1", feedback.AnswerID)
	assert.Equal(t, 80.0, feedback.Content.OverallScore)
	assert.Equal(t, 50.0, feedback.Delivery.OverallScore)
}

func TestSynthesize_MismatchedAnswerIDs(t *testing.T) {
	synth, err := New(DefaultWeights, nil, zap.NewNop())
	require.NoError(t, err)

	delivery := deliveryReport(50)
	delivery.AnswerID = "ans-2"

	_, err = synth.Synthesize(contentReport(80, 70), delivery)
	assert.Error(t, err)
}

func TestSynthesize_Deterministic(t *testing.T) {
	synth, err := New(DefaultWeights, nil, zap.NewNop())
	require.NoError(t, err)

	content := contentReport(40, 30)
	delivery := deliveryReport(45)
	delivery.PaceWPM = 190
	delivery.FillerWordRate = 8

	first, err := synth.Synthesize(content, delivery)
	require.NoError(t, err)
	second, err := synth.Synthesize(content, delivery)
	require.NoError(t, err)

	assert.Equal(t, first.CombinedScore, second.CombinedScore)
	assert.Equal(t, first.CrossInsights, second.CrossInsights)
	assert.NotEmpty(t, first.CrossInsights)
}

func TestSynthesize_MonotonicInContentScore(t *testing.T) {
	synth, err := New(Weights{Content: 0.7, Delivery: 0.3}, nil, zap.NewNop())
	require.NoError(t, err)

	delivery := deliveryReport(55)
	previous := -1.0
	for score := 0.0; score <= 100; score += 10 {
		feedback, err := synth.Synthesize(contentReport(score, 60), delivery)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, feedback.CombinedScore, previous,
			"raising content score from must never lower the combined score")
		previous = feedback.CombinedScore
	}
}

func TestSynthesize_MonotonicInDeliveryScore(t *testing.T) {
	synth, err := New(DefaultWeights, nil, zap.NewNop())
	require.NoError(t, err)

	previous := -1.0
	for score := 0.0; score <= 100; score += 10 {
		feedback, err := synth.Synthesize(contentReport(65, 60), deliveryReport(score))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, feedback.CombinedScore, previous)
		previous = feedback.CombinedScore
	}
}

func TestCrossInsights_PairedSignals(t *testing.T) {
	synth, err := New(DefaultWeights, nil, zap.NewNop())
	require.NoError(t, err)

	// Low STAR + rushed pace + high fillers fires the two structure rules.
	content := contentReport(45, 30)
	delivery := deliveryReport(40)
	delivery.PaceWPM = 195
	delivery.FillerWordRate = 9.5

	feedback, err := synth.Synthesize(content, delivery)
	require.NoError(t, err)

	require.Len(t, feedback.CrossInsights, 2)
	assert.Contains(t, feedback.CrossInsights[0], "rushed pacing")
	assert.Contains(t, feedback.CrossInsights[1], "filler-word rate")
}

func TestCrossInsights_RuleFilter(t *testing.T) {
	synth, err := New(DefaultWeights, []string{RuleStructureFillers}, zap.NewNop())
	require.NoError(t, err)

	content := contentReport(45, 30)
	delivery := deliveryReport(40)
	delivery.PaceWPM = 195
	delivery.FillerWordRate = 9.5

	feedback, err := synth.Synthesize(content, delivery)
	require.NoError(t, err)

	require.Len(t, feedback.CrossInsights, 1)
	assert.Contains(t, feedback.CrossInsights[0], "filler-word rate")
}

func TestCrossInsights_ExplicitlyDisabled(t *testing.T) {
	synth, err := New(DefaultWeights, []string{}, zap.NewNop())
	require.NoError(t, err)

	feedback, err := synth.Synthesize(contentReport(45, 30), deliveryReport(40))
	require.NoError(t, err)
	assert.Empty(t, feedback.CrossInsights)
}

func TestCrossInsights_PanicDegradesToEmpty(t *testing.T) {
	synth, err := New(DefaultWeights, nil, zap.NewNop())
	require.NoError(t, err)

	// Simulate a broken heuristic; the call must still succeed.
	synth.rules = append([]Rule{{
		Name: "broken",
		Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
			panic("boom")
		},
	}}, synth.rules...)

	feedback, err := synth.Synthesize(contentReport(45, 30), deliveryReport(40))
	require.NoError(t, err)
	assert.Empty(t, feedback.CrossInsights, "degraded synthesis returns no insights, not an error")
	assert.InDelta(t, 0.6*45+0.4*40, feedback.CombinedScore, 1e-9, "combined score is unaffected")
}

func TestRuleNames_Order(t *testing.T) {
	names := RuleNames()
	assert.Equal(t, []string{
		RuleStructurePace,
		RuleStructureFillers,
		RuleConfidenceContent,
		RuleClarityGaps,
		RuleStrongBoth,
		RuleHesitantStructured,
	}, names)
}
