package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidObservation reports an observed value outside a modality's
	// enumerated domain, or an unknown modality. Fatal to the tick that
	// received it; no partial inference is returned.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrNoViableCandidates reports that the planner reached selection with
	// zero candidates. The generate-stage fallback makes this unreachable in
	// normal operation, but selection defends against it anyway.
	ErrNoViableCandidates = errors.New("no viable candidates")
)

// ValidationError names the tick input that failed validation and why.
// It wraps ErrInvalidObservation so callers can branch on kind.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidObservation
}
