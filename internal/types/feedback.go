package types

import (
	"fmt"
	"time"
)

// SynthesizedFeedback is the unified evaluation of one answer, owning both
// sub-reports by value. Immutable once constructed.
type SynthesizedFeedback struct {
	AnswerID      string         `json:"answer_id"`
	Content       ContentReport  `json:"content"`
	Delivery      DeliveryReport `json:"delivery"`
	CombinedScore float64        `json:"combined_score"` // 0-100
	CrossInsights []string       `json:"cross_insights"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// NewSynthesizedFeedback pairs a content and delivery report into a single
// feedback value. Reports for different answers are a contract violation,
// never silently reconciled.
func NewSynthesizedFeedback(content ContentReport, delivery DeliveryReport, combinedScore float64, crossInsights []string) (*SynthesizedFeedback, error) {
	if content.AnswerID == "" || content.AnswerID != delivery.AnswerID {
		return nil, fmt.Errorf("report answer ids do not match: content=%q delivery=%q", content.AnswerID, delivery.AnswerID)
	}
	if combinedScore < 0 || combinedScore > 100 {
		return nil, fmt.Errorf("combined score %.2f out of range", combinedScore)
	}

	// Copy the insight slice so later caller mutation cannot leak in.
	insights := make([]string, len(crossInsights))
	copy(insights, crossInsights)

	return &SynthesizedFeedback{
		AnswerID:      content.AnswerID,
		Content:       content,
		Delivery:      delivery,
		CombinedScore: combinedScore,
		CrossInsights: insights,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
