package interview

import (
	"errors"
	"fmt"
)

var (
	ErrLoad         = errors.New("load failure")
	ErrGeneration   = errors.New("generation failure")
	ErrValidation   = errors.New("validation error")
	ErrSubmission   = errors.New("submission failure")
	ErrFinalization = errors.New("finalization failure")

	ErrEmptyAnswer    = fmt.Errorf("%w: empty answer", ErrValidation)
	ErrInvalidPhase   = errors.New("operation not allowed in current phase")
	ErrInvalidCursor  = errors.New("question index out of range")
	ErrResultNotFound = errors.New("consolidated result not found")
	ErrClosed         = errors.New("session closed")
)

// Fatal reports whether err should send the user away from the session.
func Fatal(err error) bool {
	return errors.Is(err, ErrLoad)
}

func phaseError(op string, phase Phase) error {
	return fmt.Errorf("%s: %w (phase %s)", op, ErrInvalidPhase, phase)
}
