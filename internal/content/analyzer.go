// Package content scores the substance of an interview answer: competency
// coverage and STAR-method structure, independent of how it was spoken.
package content

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// Analyzer produces ContentReports for answers. It holds its own model
// client; the coordinator never shares state between analyzers.
type Analyzer struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewAnalyzer creates a content analyzer backed by the given LLM client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client, tier: llm.TierAdvanced}
}

// reportPayload mirrors the JSON shape the scoring prompt requests.
type reportPayload struct {
	CompetencyScores []types.CompetencyScore `json:"competency_scores"`
	STARCompliance   float64                 `json:"star_compliance"`
	Strengths        []string                `json:"strengths"`
	Gaps             []string                `json:"gaps"`
	OverallScore     float64                 `json:"overall_content_score"`
}

// Analyze scores the answer transcript against its competency targets and
// the STAR rubric. The returned report covers exactly the target set.
func (a *Analyzer) Analyze(ctx context.Context, answer *types.Answer) (*types.ContentReport, error) {
	prompt := buildScoringPrompt(answer)

	payload, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return nil, &AnalysisError{Reason: ReasonModelFailure, Message: "scoring call failed", Cause: err}
	}

	report, err := decodeReport(answer, []byte(payload))
	if err != nil {
		return nil, err
	}
	return report, nil
}

// buildScoringPrompt fills the content scoring template for one answer.
func buildScoringPrompt(answer *types.Answer) string {
	tags := make([]string, len(answer.CompetencyTargets))
	for i, tag := range answer.CompetencyTargets {
		tags[i] = string(tag)
	}

	question := answer.Question
	if question == "" {
		question = "(not recorded)"
	}

	template := prompts.MustGet("analysis.json", "score-content")
	return prompts.Format(template, map[string]string{
		"Industry":     string(answer.Industry),
		"Question":     question,
		"Transcript":   answer.Transcript,
		"Competencies": strings.Join(tags, ", "),
	})
}

// decodeReport validates and converts a raw model payload into a
// ContentReport, enforcing the exact-competency-set contract.
func decodeReport(answer *types.Answer, payload []byte) (*types.ContentReport, error) {
	if err := schemas.Validate(schemas.ContentReport, payload); err != nil {
		return nil, &AnalysisError{Reason: ReasonMalformedOutput, Message: "payload failed schema check", Cause: err}
	}

	var parsed reportPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &AnalysisError{Reason: ReasonMalformedOutput, Message: "failed to decode payload", Cause: err}
	}

	report := &types.ContentReport{
		AnswerID:         answer.ID,
		CompetencyScores: parsed.CompetencyScores,
		STARCompliance:   parsed.STARCompliance,
		Strengths:        parsed.Strengths,
		Gaps:             parsed.Gaps,
		OverallScore:     parsed.OverallScore,
	}

	if err := report.Validate(answer.CompetencyTargets); err != nil {
		return nil, &AnalysisError{Reason: ReasonContractBreach, Message: "report violates analyzer contract", Cause: err}
	}
	return report, nil
}
