package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-coach/internal/coordinator"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/transcript"
	"github.com/jonathan/interview-coach/internal/types"
)

// ErrInvalidCredentials indicates a failed login attempt.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrValidation indicates a malformed request body.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus maps service errors onto response codes. Total analysis
// failures surface as 502 since the upstream model produced nothing
// usable; malformed answers are the caller's fault.
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		answerErr      *types.ValidationError
		industryErr    *jobs.UnknownIndustryError
		extractionErr  *transcript.ExtractionError
		totalFailure   *coordinator.TotalFailure
		credentialsErr *ErrInvalidCredentials
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &answerErr),
		errors.As(err, &industryErr), errors.As(err, &extractionErr):
		return http.StatusBadRequest
	case errors.As(err, &credentialsErr):
		return http.StatusUnauthorized
	case errors.As(err, &totalFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
