package coordinator

import (
	"fmt"

	"github.com/jonathan/interview-coach/internal/types"
)

// Branch names used in failure reports and logs.
const (
	BranchContent  = "content"
	BranchDelivery = "delivery"
)

// FailureCode classifies why an analysis branch produced no usable report.
type FailureCode string

const (
	FailureTimeout          FailureCode = "timeout"
	FailureAnalyzerError    FailureCode = "analyzer_error"
	FailureInvalidOutput    FailureCode = "invalid_output"
	FailureUnsupportedInput FailureCode = "unsupported_input"
)

// BranchFailure records one failed analysis branch.
type BranchFailure struct {
	Branch string
	Code   FailureCode
	Err    error
}

func (f *BranchFailure) Error() string {
	return fmt.Sprintf("%s analysis failed (%s): %v", f.Branch, f.Code, f.Err)
}

func (f *BranchFailure) Unwrap() error {
	return f.Err
}

// Evaluation is the outcome of one dual analysis. When Failure is nil the
// Feedback field carries the full synthesized result; otherwise exactly one
// of Content or Delivery holds the surviving report and Feedback is nil.
type Evaluation struct {
	AnswerID string
	Feedback *types.SynthesizedFeedback
	Content  *types.ContentReport
	Delivery *types.DeliveryReport
	Failure  *BranchFailure
}

// Partial reports whether one branch failed and only a single-dimension
// report is available.
func (e *Evaluation) Partial() bool {
	return e.Failure != nil
}

// TotalFailure is returned when both analysis branches fail. It carries the
// classified failure of each branch so callers can report both reasons.
type TotalFailure struct {
	AnswerID string
	Content  BranchFailure
	Delivery BranchFailure
}

func (e *TotalFailure) Error() string {
	return fmt.Sprintf("analysis of answer %s failed on both branches: content %s (%v); delivery %s (%v)",
		e.AnswerID, e.Content.Code, e.Content.Err, e.Delivery.Code, e.Delivery.Err)
}
