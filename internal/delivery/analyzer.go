package delivery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// AudioLoader resolves an answer's opaque audio ref into raw bytes plus a
// MIME type. The store behind the ref is an external concern.
type AudioLoader interface {
	Load(ctx context.Context, ref string) (data []byte, mimeType string, err error)
}

// Analyzer produces DeliveryReports for answers. It owns its model client
// and audio loader; nothing is shared with the content branch.
type Analyzer struct {
	client llm.Client
	loader AudioLoader
	tier   llm.ModelTier
}

// NewAnalyzer creates a delivery analyzer backed by the given LLM client
// and audio loader.
func NewAnalyzer(client llm.Client, loader AudioLoader) *Analyzer {
	return &Analyzer{client: client, loader: loader, tier: llm.TierStandard}
}

// coachingStyles describes the expected communication style per industry,
// fed into the speech coaching prompt.
var coachingStyles = map[types.Industry]string{
	types.IndustryTechnology: "clear technical explanations, confident problem-solving discussion, collaborative tone",
	types.IndustryHealthcare: "compassionate but authoritative, patient-focused, professional confidence",
	types.IndustryFinance:    "precise and measured, trustworthy and analytical",
	types.IndustryConsulting: "persuasive and strategic, client-focused, confident advisory tone",
	types.IndustryMarketing:  "energetic and engaging, audience-aware, persuasive storytelling",
}

// scorePayload mirrors the JSON shape the coaching prompt requests.
type scorePayload struct {
	ClarityScore    float64         `json:"clarity_score"`
	ConfidenceScore float64         `json:"confidence_score"`
	Tone            types.ToneLabel `json:"tone_label"`
	OverallScore    float64         `json:"overall_delivery_score"`
}

// Analyze scores the answer's speaking delivery. Pace and filler rate are
// computed locally from audio timing metadata; clarity, confidence and tone
// come from a multimodal coaching call over the recording itself.
func (a *Analyzer) Analyze(ctx context.Context, answer *types.Answer) (*types.DeliveryReport, error) {
	if !answer.HasAudio() {
		return nil, &UnsupportedInputError{AnswerID: answer.ID}
	}

	pace := PaceWPM(answer.Audio.WordTimings, answer.DurationMS)
	fillerRate := FillerRate(answer.Audio.WordTimings)

	audio, mimeType, err := a.loader.Load(ctx, answer.Audio.Ref)
	if err != nil {
		return nil, &AnalysisError{Reason: ReasonAudioUnavailable, Message: fmt.Sprintf("cannot load audio ref %q", answer.Audio.Ref), Cause: err}
	}

	prompt := buildCoachingPrompt(answer, pace, fillerRate)

	payload, err := a.client.GenerateJSONWithAudio(ctx, prompt, audio, mimeType, a.tier)
	if err != nil {
		return nil, &AnalysisError{Reason: ReasonModelFailure, Message: "coaching call failed", Cause: err}
	}

	return decodeReport(answer, []byte(payload), pace, fillerRate)
}

// buildCoachingPrompt fills the delivery scoring template for one answer.
func buildCoachingPrompt(answer *types.Answer, pace, fillerRate float64) string {
	template := prompts.MustGet("analysis.json", "score-delivery")
	return prompts.Format(template, map[string]string{
		"Industry":   string(answer.Industry),
		"Style":      coachingStyles[answer.Industry],
		"PaceWPM":    fmt.Sprintf("%.0f", pace),
		"FillerRate": fmt.Sprintf("%.1f", fillerRate),
	})
}

// decodeReport validates and converts a raw model payload into a
// DeliveryReport carrying the locally computed pace and filler metrics.
func decodeReport(answer *types.Answer, payload []byte, pace, fillerRate float64) (*types.DeliveryReport, error) {
	if err := schemas.Validate(schemas.DeliveryReport, payload); err != nil {
		return nil, &AnalysisError{Reason: ReasonMalformedOutput, Message: "payload failed schema check", Cause: err}
	}

	var parsed scorePayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, &AnalysisError{Reason: ReasonMalformedOutput, Message: "failed to decode payload", Cause: err}
	}

	report := &types.DeliveryReport{
		AnswerID:        answer.ID,
		PaceWPM:         pace,
		ClarityScore:    parsed.ClarityScore,
		ConfidenceScore: parsed.ConfidenceScore,
		FillerWordRate:  fillerRate,
		Tone:            parsed.Tone,
		OverallScore:    parsed.OverallScore,
	}

	if err := report.Validate(); err != nil {
		return nil, &AnalysisError{Reason: ReasonMalformedOutput, Message: "report violates analyzer contract", Cause: err}
	}
	return report, nil
}
