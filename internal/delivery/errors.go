package delivery

import "fmt"

// Reason codes for delivery analysis failures.
const (
	ReasonModelFailure     = "model_failure"
	ReasonMalformedOutput  = "malformed_output"
	ReasonAudioUnavailable = "audio_unavailable"
)

// AnalysisError reports a failed delivery analysis with a machine-readable
// reason code.
type AnalysisError struct {
	Reason  string
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("delivery analysis failed (%s): %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("delivery analysis failed (%s): %s", e.Reason, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// UnsupportedInputError marks a precondition violation: the answer carries
// no audio timing metadata, so pace and filler rate cannot be computed.
type UnsupportedInputError struct {
	AnswerID string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("answer %s has no audio timing metadata; delivery analysis requires a recorded answer", e.AnswerID)
}
