package synthesis

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// Rule is one pure cross-insight heuristic. Apply inspects both reports and
// returns a human-readable insight when its paired signals fire.
type Rule struct {
	Name  string
	Apply func(content types.ContentReport, delivery types.DeliveryReport) (string, bool)
}

// Rule names accepted in the enabled_cross_insight_rules configuration.
const (
	RuleStructurePace      = "structure_vs_pace"
	RuleStructureFillers   = "structure_vs_fillers"
	RuleConfidenceContent  = "confidence_vs_content"
	RuleClarityGaps        = "clarity_vs_gaps"
	RuleStrongBoth         = "strong_both"
	RuleHesitantStructured = "hesitant_but_structured"
)

// Thresholds for the built-in rules.
const (
	lowSTAR        = 50.0
	rushedWPM      = 170.0
	highFillerRate = 5.0
	strongScore    = 80.0
	weakScore      = 50.0
)

// builtinRules returns the cross-insight rules in their fixed evaluation
// order. The order is part of the deterministic output contract.
func builtinRules() []Rule {
	return []Rule{
		{
			Name: RuleStructurePace,
			Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
				if c.STARCompliance < lowSTAR && d.PaceWPM > rushedWPM {
					return fmt.Sprintf(
						"Low STAR structure correlates with rushed pacing (%.0f wpm): slowing down leaves room to state the Situation, Task, Action and Result explicitly.",
						d.PaceWPM), true
				}
				return "", false
			},
		},
		{
			Name: RuleStructureFillers,
			Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
				if c.STARCompliance < lowSTAR && d.FillerWordRate > highFillerRate {
					return fmt.Sprintf(
						"Weak STAR compliance alongside a high filler-word rate (%.1f per 100 words) suggests the answer was improvised: rehearse the story skeleton before speaking.",
						d.FillerWordRate), true
				}
				return "", false
			},
		},
		{
			Name: RuleConfidenceContent,
			Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
				if c.OverallScore >= strongScore && d.ConfidenceScore < weakScore {
					return "The content is strong but the delivery undersells it: the hesitant vocal confidence does not match the quality of the answer.", true
				}
				return "", false
			},
		},
		{
			Name: RuleClarityGaps,
			Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
				if d.ClarityScore < weakScore && len(c.Gaps) > 0 {
					return fmt.Sprintf(
						"Low articulation clarity compounds the content gap %q: unclear delivery makes missing detail harder for an interviewer to forgive.",
						c.Gaps[0]), true
				}
				return "", false
			},
		},
		{
			Name: RuleStrongBoth,
			Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
				if c.OverallScore >= strongScore && d.OverallScore >= strongScore {
					return "Content and delivery reinforce each other here: keep this pacing and structure as the template for harder questions.", true
				}
				return "", false
			},
		},
		{
			Name: RuleHesitantStructured,
			Apply: func(c types.ContentReport, d types.DeliveryReport) (string, bool) {
				if c.STARCompliance >= strongScore && d.Tone == types.ToneHesitant {
					return "The answer is well structured but the tone reads as hesitant: the structure is doing work the voice is not backing up.", true
				}
				return "", false
			},
		},
	}
}

// RuleNames returns the names of all built-in rules in evaluation order.
func RuleNames() []string {
	rules := builtinRules()
	names := make([]string, len(rules))
	for i, rule := range rules {
		names[i] = rule.Name
	}
	return names
}
