package types

import "fmt"

// CompetencyScore is a single competency assessment within a ContentReport.
type CompetencyScore struct {
	Competency CompetencyTag `json:"competency"`
	Score      float64       `json:"score"`    // 0-100
	Feedback   string        `json:"feedback"` // short rationale for the score
}

// ContentReport scores what the candidate said: competency coverage and
// STAR-method structure. Produced once per Answer; treated as immutable.
type ContentReport struct {
	AnswerID         string            `json:"answer_id"`
	CompetencyScores []CompetencyScore `json:"competency_scores"`
	STARCompliance   float64           `json:"star_compliance"` // 0-100
	Strengths        []string          `json:"strengths"`
	Gaps             []string          `json:"gaps"`
	OverallScore     float64           `json:"overall_content_score"` // 0-100
}

// Validate enforces the content analyzer contract: scores for exactly the
// target competency set, every score within range.
func (r *ContentReport) Validate(targets []CompetencyTag) error {
	if r.AnswerID == "" {
		return fmt.Errorf("content report missing answer id")
	}
	if len(r.CompetencyScores) != len(targets) {
		return fmt.Errorf("content report has %d competency scores, want %d", len(r.CompetencyScores), len(targets))
	}

	want := make(map[CompetencyTag]bool, len(targets))
	for _, tag := range targets {
		want[tag] = true
	}
	for _, cs := range r.CompetencyScores {
		if !want[cs.Competency] {
			return fmt.Errorf("content report scored untargeted competency %q", cs.Competency)
		}
		delete(want, cs.Competency)
		if cs.Score < 0 || cs.Score > 100 {
			return fmt.Errorf("competency %q score %.1f out of range", cs.Competency, cs.Score)
		}
	}
	for tag := range want {
		return fmt.Errorf("content report missing score for competency %q", tag)
	}

	if r.STARCompliance < 0 || r.STARCompliance > 100 {
		return fmt.Errorf("star compliance %.1f out of range", r.STARCompliance)
	}
	if r.OverallScore < 0 || r.OverallScore > 100 {
		return fmt.Errorf("overall content score %.1f out of range", r.OverallScore)
	}
	return nil
}

// ToneLabel categorizes the overall vocal tone of a delivery.
type ToneLabel string

// Recognized tone labels, from the speech coaching rubric.
const (
	ToneConfident ToneLabel = "confident"
	ToneNeutral   ToneLabel = "neutral"
	ToneHesitant  ToneLabel = "hesitant"
	ToneRushed    ToneLabel = "rushed"
	ToneMonotone  ToneLabel = "monotone"
)

// DeliveryReport scores how the candidate spoke, independent of content
// correctness. Pace and filler rate come from audio timing metadata.
// Produced once per Answer; treated as immutable.
type DeliveryReport struct {
	AnswerID        string    `json:"answer_id"`
	PaceWPM         float64   `json:"pace_wpm"`
	ClarityScore    float64   `json:"clarity_score"`    // 0-100
	ConfidenceScore float64   `json:"confidence_score"` // 0-100
	FillerWordRate  float64   `json:"filler_word_rate"` // filler words per 100 words
	Tone            ToneLabel `json:"tone_label"`
	OverallScore    float64   `json:"overall_delivery_score"` // 0-100
}

// Validate checks the delivery report invariants.
func (r *DeliveryReport) Validate() error {
	if r.AnswerID == "" {
		return fmt.Errorf("delivery report missing answer id")
	}
	if r.PaceWPM < 0 {
		return fmt.Errorf("pace %.1f wpm is negative", r.PaceWPM)
	}
	if r.FillerWordRate < 0 {
		return fmt.Errorf("filler word rate %.2f is negative", r.FillerWordRate)
	}
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"clarity_score", r.ClarityScore},
		{"confidence_score", r.ConfidenceScore},
		{"overall_delivery_score", r.OverallScore},
	} {
		if check.value < 0 || check.value > 100 {
			return fmt.Errorf("%s %.1f out of range", check.name, check.value)
		}
	}
	return nil
}
