// Package types provides type definitions for structured data used throughout the interview-coach system.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CompetencyTag identifies one of the core interview competencies.
type CompetencyTag string

// Core competencies assessed during interview preparation.
const (
	CompetencyProblemSolving       CompetencyTag = "problem_solving"
	CompetencyTechnicalExpertise   CompetencyTag = "technical_expertise"
	CompetencyProjectManagement    CompetencyTag = "project_management"
	CompetencyAnalyticalThinking   CompetencyTag = "analytical_thinking"
	CompetencyAttentionToDetail    CompetencyTag = "attention_to_detail"
	CompetencyWrittenCommunication CompetencyTag = "written_communication"
	CompetencyLeadership           CompetencyTag = "leadership"
	CompetencyTeamwork             CompetencyTag = "teamwork"
)

// CoreCompetencies lists every supported competency tag in canonical order.
var CoreCompetencies = []CompetencyTag{
	CompetencyProblemSolving,
	CompetencyTechnicalExpertise,
	CompetencyProjectManagement,
	CompetencyAnalyticalThinking,
	CompetencyAttentionToDetail,
	CompetencyWrittenCommunication,
	CompetencyLeadership,
	CompetencyTeamwork,
}

// IsValid reports whether the tag is one of the core competencies.
func (t CompetencyTag) IsValid() bool {
	for _, c := range CoreCompetencies {
		if t == c {
			return true
		}
	}
	return false
}

// Industry identifies the job market segment an answer is coached for.
type Industry string

// Supported industries. Unrecognized industries are rejected during
// validation rather than coached with a guessed default style.
const (
	IndustryTechnology Industry = "technology"
	IndustryHealthcare Industry = "healthcare"
	IndustryFinance    Industry = "finance"
	IndustryConsulting Industry = "consulting"
	IndustryMarketing  Industry = "marketing"
)

// SupportedIndustries lists every industry the analyzers know how to coach.
var SupportedIndustries = []Industry{
	IndustryTechnology,
	IndustryHealthcare,
	IndustryFinance,
	IndustryConsulting,
	IndustryMarketing,
}

// IsValid reports whether the industry is supported.
func (i Industry) IsValid() bool {
	for _, s := range SupportedIndustries {
		if i == s {
			return true
		}
	}
	return false
}

// WordTiming records when a single transcript word was spoken, in
// milliseconds from the start of the recording.
type WordTiming struct {
	Word    string `json:"word"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
}

// Pause records a gap in speech, in milliseconds from the start of the
// recording.
type Pause struct {
	StartMS int64 `json:"start_ms"`
	EndMS   int64 `json:"end_ms"`
}

// AudioFeatures holds the acoustic metadata produced by the transcript
// extractor. Pace and filler-rate computation depend on these timings;
// they are never derived from transcript text alone.
type AudioFeatures struct {
	Ref         string       `json:"ref"` // opaque handle to the stored recording
	WordTimings []WordTiming `json:"word_timings,omitempty"`
	Pauses      []Pause      `json:"pauses,omitempty"`
}

// Answer is one spoken interview answer submitted for evaluation.
// Answers are immutable once submitted; analyzers receive read-only views.
type Answer struct {
	ID                string          `json:"id" validate:"required"`
	Question          string          `json:"question,omitempty"`
	Transcript        string          `json:"transcript" validate:"required"`
	Audio             *AudioFeatures  `json:"audio,omitempty"`
	Industry          Industry        `json:"industry" validate:"required"`
	CompetencyTargets []CompetencyTag `json:"competency_targets" validate:"required,min=1"`
	DurationMS        int64           `json:"duration_ms" validate:"required,gt=0"`
}

// ValidationError reports a malformed Answer rejected before analysis starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid answer: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid answer: %s", e.Message)
}

// Validate checks the Answer against struct tags and domain rules.
// A failing Answer never reaches the analyzers.
func (a *Answer) Validate() error {
	validate := validator.New()
	if err := validate.Struct(a); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	if strings.TrimSpace(a.Transcript) == "" {
		return &ValidationError{Field: "transcript", Message: "transcript is blank"}
	}

	if !a.Industry.IsValid() {
		return &ValidationError{
			Field:   "industry",
			Message: fmt.Sprintf("unsupported industry %q", a.Industry),
		}
	}

	seen := make(map[CompetencyTag]bool, len(a.CompetencyTargets))
	for _, tag := range a.CompetencyTargets {
		if !tag.IsValid() {
			return &ValidationError{
				Field:   "competency_targets",
				Message: fmt.Sprintf("unknown competency %q", tag),
			}
		}
		if seen[tag] {
			return &ValidationError{
				Field:   "competency_targets",
				Message: fmt.Sprintf("duplicate competency %q", tag),
			}
		}
		seen[tag] = true
	}

	return nil
}

// HasAudio reports whether the answer carries audio timing metadata
// sufficient for delivery analysis.
func (a *Answer) HasAudio() bool {
	return a.Audio != nil && a.Audio.Ref != "" && len(a.Audio.WordTimings) > 0
}

// WordCount returns the number of words in the transcript.
func (a *Answer) WordCount() int {
	return len(strings.Fields(a.Transcript))
}
