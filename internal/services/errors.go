package services

import (
	"errors"

	apperrors "github.com/SAP-F-2025/survey-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrConflict = errors.New("resource conflict")

	// Session errors
	ErrSessionNotFound = errors.New("survey session not found")

	// Form errors
	ErrUnknownField      = errors.New("unknown survey field")
	ErrFieldKindMismatch = errors.New("value does not match field kind")

	// Submission errors
	ErrNotOnFinalStep     = errors.New("submission is only allowed on the final step")
	ErrAlreadySubmitted   = errors.New("survey already submitted")
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrServerUnreachable  = errors.New("server unreachable")
)

// MsgServerUnreachable is the user-facing text for every remote submission failure.
const MsgServerUnreachable = "Failed to submit survey: server unreachable. Please try again."

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBadRequest checks if the caller sent something the schema cannot hold
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrFieldKindMismatch)
}

// IsConflict checks if the request clashes with the current submission state
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotOnFinalStep) ||
		errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrSubmissionInFlight)
}

// IsRemoteFailure checks if the submission endpoint failed or rejected the record
func IsRemoteFailure(err error) bool {
	return errors.Is(err, ErrServerUnreachable)
}
