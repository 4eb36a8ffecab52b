package models

import (
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrAlreadyVoted = errors.New("user already voted")

	// ErrCrisisConfirmation is returned when a submission was held back for
	// crisis support and the author has not confirmed they want to continue.
	ErrCrisisConfirmation = errors.New("crisis support confirmation required")
)
