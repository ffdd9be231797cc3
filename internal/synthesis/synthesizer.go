// Package synthesis merges an answer's content and delivery reports into a
// single scored feedback value with cross-referenced insights.
package synthesis

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/types"
)

// Weights controls how content and delivery scores combine. The two weights
// must sum to 1.
type Weights struct {
	Content  float64 `json:"content_weight"`
	Delivery float64 `json:"delivery_weight"`
}

// DefaultWeights is the standard content-heavy split used when no industry
// override is configured.
var DefaultWeights = Weights{Content: 0.6, Delivery: 0.4}

// Validate checks the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.Content < 0 || w.Delivery < 0 {
		return fmt.Errorf("weights must be non-negative, got content=%.2f delivery=%.2f", w.Content, w.Delivery)
	}
	if math.Abs(w.Content+w.Delivery-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1, got content=%.2f delivery=%.2f", w.Content, w.Delivery)
	}
	return nil
}

// Synthesizer combines paired reports. It is safe for concurrent use: all
// state is read-only after construction.
type Synthesizer struct {
	weights Weights
	rules   []Rule
	logger  *zap.Logger
}

// New creates a Synthesizer with the given weights and enabled rule names.
// A nil ruleNames slice enables every built-in rule; an explicit empty
// slice disables cross-insight generation entirely.
func New(weights Weights, ruleNames []string, logger *zap.Logger) (*Synthesizer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rules := builtinRules()
	if ruleNames != nil {
		enabled := make(map[string]bool, len(ruleNames))
		for _, name := range ruleNames {
			enabled[name] = true
		}
		filtered := rules[:0]
		for _, rule := range rules {
			if enabled[rule.Name] {
				filtered = append(filtered, rule)
			}
		}
		rules = filtered
	}

	return &Synthesizer{weights: weights, rules: rules, logger: logger}, nil
}

// Synthesize merges a content and delivery report for the same answer.
// The combined score is the weighted sum of the two overall scores; the
// cross-insight layer can degrade to no insights but never fails the call.
func (s *Synthesizer) Synthesize(content types.ContentReport, delivery types.DeliveryReport) (*types.SynthesizedFeedback, error) {
	combined := s.weights.Content*content.OverallScore + s.weights.Delivery*delivery.OverallScore
	insights := s.generateInsights(content, delivery)
	return types.NewSynthesizedFeedback(content, delivery, combined, insights)
}

// generateInsights runs the enabled rules in fixed order. A rule failure
// degrades to an empty insight list with a logged warning; it is never
// surfaced to the caller.
func (s *Synthesizer) generateInsights(content types.ContentReport, delivery types.DeliveryReport) (insights []string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("cross-insight generation failed, continuing without insights",
				zap.String("answer_id", content.AnswerID),
				zap.Any("panic", r),
			)
			insights = nil
		}
	}()

	for _, rule := range s.rules {
		if insight, ok := rule.Apply(content, delivery); ok {
			insights = append(insights, insight)
		}
	}
	return insights
}
