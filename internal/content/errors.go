package content

import "fmt"

// Reason codes for content analysis failures.
const (
	ReasonModelFailure    = "model_failure"
	ReasonMalformedOutput = "malformed_output"
	ReasonContractBreach  = "contract_breach"
)

// AnalysisError reports a failed content analysis with a machine-readable
// reason code.
type AnalysisError struct {
	Reason  string
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("content analysis failed (%s): %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("content analysis failed (%s): %s", e.Reason, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
