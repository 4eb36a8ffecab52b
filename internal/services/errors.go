package services

import (
	"hush/internal/crisis"
	"hush/internal/models"
)

// ValidationError is a user-facing input problem. It matches
// models.ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == models.ErrValidation }

// CrisisBlockedError is returned by Create when the text routed to a blocking
// crisis level and the author did not confirm.
type CrisisBlockedError struct {
	Decision crisis.Decision
}

func (e *CrisisBlockedError) Error() string {
	return "submission held for crisis support: " + string(e.Decision.Level)
}

func (e *CrisisBlockedError) Unwrap() error { return models.ErrCrisisConfirmation }
