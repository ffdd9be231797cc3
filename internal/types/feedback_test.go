package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSynthesizedFeedback(t *testing.T) {
	content := validContentReport()
	delivery := validDeliveryReport()

	feedback, err := NewSynthesizedFeedback(content, delivery, 76.2, []string{"insight"})
	require.NoError(t, err)
	assert.Equal(t, "ans-1", feedback.AnswerID)
	assert.Equal(t, 76.2, feedback.CombinedScore)
	assert.Equal(t, []string{"insight"}, feedback.CrossInsights)
	assert.False(t, feedback.GeneratedAt.IsZero())
}

func TestNewSynthesizedFeedback_MismatchedAnswerIDs(t *testing.T) {
	content := validContentReport()
	delivery := validDeliveryReport()
	delivery.AnswerID = "ans-2"

	feedback, err := NewSynthesizedFeedback(content, delivery, 76.2, nil)
	require.Error(t, err)
	assert.Nil(t, feedback)
	assert.Contains(t, err.Error(), "do not match")
}

func TestNewSynthesizedFeedback_EmptyAnswerIDs(t *testing.T) {
	content := validContentReport()
	delivery := validDeliveryReport()
	content.AnswerID = ""
	delivery.AnswerID = ""

	_, err := NewSynthesizedFeedback(content, delivery, 50, nil)
	assert.Error(t, err, "two empty ids must not pass the same-answer check")
}

func TestNewSynthesizedFeedback_ScoreRange(t *testing.T) {
	content := validContentReport()
	delivery := validDeliveryReport()

	_, err := NewSynthesizedFeedback(content, delivery, 100.5, nil)
	assert.ErrorContains(t, err, "out of range")
}

func TestNewSynthesizedFeedback_CopiesInsights(t *testing.T) {
	content := validContentReport()
	delivery := validDeliveryReport()

	insights := []string{"a", "b"}
	feedback, err := NewSynthesizedFeedback(content, delivery, 70, insights)
	require.NoError(t, err)

	insights[0] = "mutated"
	assert.Equal(t, "a", feedback.CrossInsights[0])
}
